package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const SubscriberSchemaTextV1 = `{
	"type": "record",
	"namespace": "customtee.newsletter",
	"name": "subscriber",
	"fields": [
		{"name": "email", "type": "string"},
		{"name": "date", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type SubscriberV1 struct {
	Email string    `avro:"email"`
	Date  time.Time `avro:"date"`
}

func SubscriberV1Avro() avro.Schema {
	return avro.MustParse(SubscriberSchemaTextV1)
}
