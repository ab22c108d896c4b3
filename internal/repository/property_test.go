package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelobcoder/listing/pkg/customerror"
	"github.com/xelobcoder/listing/pkg/property"
)

func floatPtr(value float64) *float64 {
	return &value
}

func TestBuildSearchWhereEmptyFilter(t *testing.T) {
	clause, params := buildSearchWhere(property.Filter{})
	assert.Equal(t, "", clause)
	assert.Empty(t, params)
}

func TestBuildSearchWhereAllPredicates(t *testing.T) {
	filter := property.Filter{
		PropertyType: "HOUSE",
		MinPrice:     floatPtr(50000),
		MaxPrice:     floatPtr(250000),
		City:         "accra",
	}
	clause, params := buildSearchWhere(filter)
	assert.Equal(t, " AND property_type = $1 AND price >= $2 AND price <= $3 AND city ILIKE $4", clause)
	require.Len(t, params, 4)
	assert.Equal(t, "HOUSE", params[0])
	assert.Equal(t, 50000.0, params[1])
	assert.Equal(t, 250000.0, params[2])
	assert.Equal(t, "%accra%", params[3])
}

func TestBuildSearchWherePartialFilterRenumbers(t *testing.T) {
	filter := property.Filter{
		MaxPrice: floatPtr(90000),
		City:     "East Accra",
	}
	clause, params := buildSearchWhere(filter)
	assert.Equal(t, " AND price <= $1 AND city ILIKE $2", clause)
	require.Len(t, params, 2)
	assert.Equal(t, 90000.0, params[0])
	assert.Equal(t, "%East Accra%", params[1])
}

func TestEncodeRefsNilBecomesEmptyArray(t *testing.T) {
	encoded, err := encodeRefs(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}

func TestRefsRoundTripPreservesOrder(t *testing.T) {
	refs := []string{
		"/uploads/properties/p1-1.jpg",
		"/uploads/properties/p1-2.png",
		"/uploads/properties/p1-3.webp",
	}
	encoded, err := encodeRefs(refs)
	require.NoError(t, err)
	decoded, err := decodeRefs([]byte(encoded), "image_urls")
	require.NoError(t, err)
	assert.Equal(t, refs, decoded)
}

func TestDecodeRefsEmptyColumn(t *testing.T) {
	decoded, err := decodeRefs(nil, "floor_plans")
	require.NoError(t, err)
	assert.Equal(t, []string{}, decoded)
}

func TestDecodeRefsRejectsNonArrayPayload(t *testing.T) {
	for _, payload := range []string{`"a-bare-string"`, `{"url":"x"}`, `not json`} {
		_, err := decodeRefs([]byte(payload), "image_urls")
		assert.True(t, errors.Is(err, customerror.ErrSerialization), "payload %q", payload)
	}
}
