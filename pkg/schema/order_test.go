package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := OrderV1{
			ID: "ORD-1700000000000",
			Items: []OrderItemV1{
				{
					ID:             "item1",
					ProductType:    "hoodie",
					Size:           "L",
					Color:          "black",
					HasDesignImage: true,
					CustomText:     "hello",
					TextColor:      "#000000",
					Quantity:       2,
					Price:          49.99,
				},
			},
			Subtotal: 99.98,
			Shipping: 5.99,
			Tax:      8,
			Total:    113.97,
			Date:     time.UnixMilli(1700000000000).UTC(),
			Status:   "processing",
		}

		var orderSchema avro.Schema
		require.NotPanics(t, func() {
			orderSchema = OrderV1Avro()
		})

		data, err := avro.Marshal(orderSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderV1
		err = avro.Unmarshal(orderSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal.ID, vUnmarshal.ID)
		assert.Equal(t, vMarshal.Items, vUnmarshal.Items)
		assert.Equal(t, vMarshal.Subtotal, vUnmarshal.Subtotal)
		assert.Equal(t, vMarshal.Shipping, vUnmarshal.Shipping)
		assert.Equal(t, vMarshal.Tax, vUnmarshal.Tax)
		assert.Equal(t, vMarshal.Total, vUnmarshal.Total)
		assert.True(t, vMarshal.Date.Equal(vUnmarshal.Date))
		assert.Equal(t, vMarshal.Status, vUnmarshal.Status)
	})

	t.Run("NoItems", func(t *testing.T) {
		vMarshal := OrderV1{
			ID:     "ORD-1",
			Date:   time.UnixMilli(1).UTC(),
			Status: "failed",
		}

		orderSchema := OrderV1Avro()
		data, err := avro.Marshal(orderSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderV1
		err = avro.Unmarshal(orderSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Empty(t, vUnmarshal.Items)
		assert.Equal(t, vMarshal.Status, vUnmarshal.Status)
	})
}

func TestSubscriberV1(t *testing.T) {
	vMarshal := SubscriberV1{
		Email: "jane@example.com",
		Date:  time.UnixMilli(1700000000123).UTC(),
	}

	var subscriberSchema avro.Schema
	require.NotPanics(t, func() {
		subscriberSchema = SubscriberV1Avro()
	})

	data, err := avro.Marshal(subscriberSchema, vMarshal)
	require.NoError(t, err)

	var vUnmarshal SubscriberV1
	err = avro.Unmarshal(subscriberSchema, data, &vUnmarshal)
	require.NoError(t, err)

	assert.Equal(t, vMarshal.Email, vUnmarshal.Email)
	assert.True(t, vMarshal.Date.Equal(vUnmarshal.Date))
}
