package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "customtee.orders",
	"name": "order",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "product_type", "type": "string"},
					{"name": "size", "type": "string"},
					{"name": "color", "type": "string"},
					{"name": "has_design_image", "type": "boolean"},
					{"name": "custom_text", "type": "string"},
					{"name": "text_color", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "price", "type": "double"}
				]
			}
		}},
		{"name": "subtotal", "type": "double"},
		{"name": "shipping", "type": "double"},
		{"name": "tax", "type": "double"},
		{"name": "total", "type": "double"},
		{"name": "date", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "status", "type": "string"}
	]
}`

type (
	OrderV1 struct {
		ID       string        `avro:"id"`
		Items    []OrderItemV1 `avro:"items"`
		Subtotal float64       `avro:"subtotal"`
		Shipping float64       `avro:"shipping"`
		Tax      float64       `avro:"tax"`
		Total    float64       `avro:"total"`
		Date     time.Time     `avro:"date"`
		Status   string        `avro:"status"`
	}

	OrderItemV1 struct {
		ID             string  `avro:"id"`
		ProductType    string  `avro:"product_type"`
		Size           string  `avro:"size"`
		Color          string  `avro:"color"`
		HasDesignImage bool    `avro:"has_design_image"`
		CustomText     string  `avro:"custom_text"`
		TextColor      string  `avro:"text_color"`
		Quantity       int     `avro:"quantity"`
		Price          float64 `avro:"price"`
	}
)

func OrderV1Avro() avro.Schema {
	return avro.MustParse(OrderSchemaTextV1)
}
