package domain

type ProductType string

const (
	TShirt  ProductType = "tshirt"
	Hoodie  ProductType = "hoodie"
	Sleevie ProductType = "sleevie"
	Cap     ProductType = "cap"
)

var productTypes = []ProductType{TShirt, Hoodie, Sleevie, Cap}

func ProductTypes() []ProductType {
	return append([]ProductType(nil), productTypes...)
}

func (t ProductType) Valid() bool {
	for _, v := range productTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"

	// OneSize is used by the catalog for caps only.
	OneSize Size = "One Size"
)

func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
	Gray  Color = "gray"
	Navy  Color = "navy"
	Red   Color = "red"
)

// Valid reports whether c can be printed on a customized item.
// Catalog listings may carry other colors.
func (c Color) Valid() bool {
	switch c {
	case White, Black, Gray, Navy, Red:
		return true
	}
	return false
}

type Build string

const (
	Lean     Build = "lean"
	Regular  Build = "regular"
	Athletic Build = "athletic"
	Big      Build = "big"
)

func (b Build) Valid() bool {
	switch b {
	case Lean, Regular, Athletic, Big:
		return true
	}
	return false
}
