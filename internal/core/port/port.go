package port

import (
	"context"
	"errors"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// Persisted record names.
const (
	CartRecord                = "Cart"
	PreferencesRecord         = "Preferences"
	RecentlyViewedRecord      = "RecentlyViewed"
	SavedCustomizationsRecord = "SavedCustomizations"
	SubscribersRecord         = "Subscribers"
	OrdersRecord              = "Orders"
	ContactMessagesRecord     = "ContactMessages"
)

// KVStorage is a durable byte store keyed by record name.
type KVStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close()
}

// Persister loads and saves JSON records. Load failures are reported only
// through ok=false; the caller keeps its default.
type Persister interface {
	LoadInto(ctx context.Context, key string, v any) (ok bool)
	Save(ctx context.Context, key string, v any) error
}

type CartAdder interface {
	AddToCart(context.Context, domain.CartItem) domain.CartItem
}

type CartReader interface {
	Items() []domain.CartItem
	Summary() domain.OrderSummary
	// Snapshot returns the items and their summary as of one moment.
	Snapshot() ([]domain.CartItem, domain.OrderSummary)
}

type CartClearer interface {
	ClearCart(context.Context)
}

type CartRemover interface {
	RemoveItems(ctx context.Context, ids []string)
}

type Cart interface {
	CartAdder
	CartReader
	CartClearer
	CartRemover
	UpdateCartItem(ctx context.Context, id string, patch domain.CartItemPatch)
	RemoveFromCart(ctx context.Context, id string)
	Total() decimal.Decimal
	Count() int
	Ready() bool
	Unsaved() bool
}

type PreferencesReader interface {
	Preferences() domain.Preferences
}

type Catalog interface {
	All() []domain.Product
	ByID(id int) (domain.Product, bool)
}

// PaymentGateway charges an order. Implementations must honor ctx.
type PaymentGateway interface {
	Charge(ctx context.Context, order domain.Order) error
}

type OrderPublisher interface {
	PublishOrder(context.Context, domain.Order) error
}

type SubscriberEmitter interface {
	EmitSubscriber(context.Context, domain.Subscriber) error
}

// ImageProcessor turns an uploaded image into a displayable reference.
type ImageProcessor interface {
	Process(ctx context.Context, data []byte) (domain.ImageRef, error)
}

type Preferences interface {
	PreferencesReader
	UpdatePreferences(context.Context, domain.PreferencesPatch) domain.Preferences
	CycleTheme(context.Context) domain.Preferences
}

type ProductBrowser interface {
	Products(domain.ProductQuery) []domain.Product
	Product(ctx context.Context, id int) (domain.Product, error)
	RecentlyViewed() []domain.Product
}

type Customizer interface {
	Snapshot() domain.Customization
	Price() decimal.Decimal
	Update(domain.CustomizationPatch) domain.Customization
	Reset() domain.Customization
	Commit(context.Context) (domain.CartItem, error)
}

type OrderPlacer interface {
	State() domain.CheckoutState
	LastError() error
	Place(context.Context) (domain.Order, error)
	Retry(context.Context) (domain.Order, error)
	Cancel()
}

type Subscriber interface {
	Subscribe(ctx context.Context, email string) (domain.Subscriber, bool, error)
}

type MessageSender interface {
	Send(context.Context, domain.ContactMessage) (domain.ContactMessage, error)
}

// History lists the entries of an append-only log, oldest first.
type History[T any] interface {
	Entries() []T
}
