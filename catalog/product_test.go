package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name             string
		raw              string
		expectedPrice    string
		expectedIsActive bool
	}{
		{
			name:             "given price as decimal string should parse exactly",
			raw:              `{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}`,
			expectedPrice:    "129.99",
			expectedIsActive: true,
		},
		{
			name:             "given price as bare number should parse exactly",
			raw:              `{"id":1,"name":"Velocity Runner","price":129.99,"stock":25}`,
			expectedPrice:    "129.99",
			expectedIsActive: true,
		},
		{
			name:             "given price under unit_price should fall back to it",
			raw:              `{"id":1,"name":"Velocity Runner","unit_price":"74.00","stock":25}`,
			expectedPrice:    "74",
			expectedIsActive: true,
		},
		{
			name:             "given unparseable price should normalize to zero",
			raw:              `{"id":1,"name":"Velocity Runner","price":"free","stock":25}`,
			expectedPrice:    "0",
			expectedIsActive: true,
		},
		{
			name:             "given negative price should normalize to zero",
			raw:              `{"id":1,"name":"Velocity Runner","price":"-5.00","stock":25}`,
			expectedPrice:    "0",
			expectedIsActive: true,
		},
		{
			name:             "given missing is_active should default to active",
			raw:              `{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}`,
			expectedPrice:    "129.99",
			expectedIsActive: true,
		},
		{
			name:             "given explicit is_active false should keep it",
			raw:              `{"id":1,"name":"Velocity Runner","price":"129.99","stock":25,"is_active":false}`,
			expectedPrice:    "129.99",
			expectedIsActive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := wireProduct{}
			assert.NoError(t, json.Unmarshal([]byte(tt.raw), &wire))

			product := wire.normalize()
			assert.Equal(t, tt.expectedPrice, product.Price.String())
			assert.Equal(t, tt.expectedIsActive, product.IsActive)
		})
	}
}

func TestDecodeProductListing(t *testing.T) {
	bare := `[{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}]`
	enveloped := `{"results":[{"id":1,"name":"Velocity Runner","price":"129.99","stock":25}]}`

	fromBare, err := decodeProductListing([]byte(bare))
	assert.NoError(t, err)
	fromEnvelope, err := decodeProductListing([]byte(enveloped))
	assert.NoError(t, err)

	assert.EqualValues(t, fromBare, fromEnvelope, "both listing shapes should decode identically")
	assert.Len(t, fromBare, 1)
	assert.EqualValues(t, 1, fromBare[0].ID)
}

func TestSnapshotTakesFirstImage(t *testing.T) {
	product := Product{
		ID:   1,
		Name: "Velocity Runner",
		Images: []Image{
			{ID: 1, URL: "/media/products/velocity-runner.jpg"},
			{ID: 2, URL: "/media/products/velocity-runner-top.jpg"},
		},
	}
	snapshot := product.Snapshot()
	assert.Equal(t, "/media/products/velocity-runner.jpg", snapshot.ImageRef)

	assert.Empty(t, Product{ID: 2}.Snapshot().ImageRef)
}
