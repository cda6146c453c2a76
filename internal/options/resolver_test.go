package options

import (
	"encoding/json"
	"testing"

	"cake-order-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64 { return &v }

func TestParse_DropsMalformedEntries(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"s1","visible":"ENABLE","displayName":"1호","price":5000,"lengthCm":15,"description":"2-3 people"},
		{"id":"s2","visible":"MAYBE","displayName":"2호","price":7000},
		{"id":3,"visible":"ENABLE","displayName":"3호","price":9000},
		{"id":"s4","visible":"ENABLE","displayName":"4호","price":-1},
		{"id":"s5","visible":"ENABLE","price":1000},
		{"id":"s6","visible":"DISABLE","displayName":"6호","price":"1000"},
		{"id":"s7","visible":"ENABLE","displayName":"7호","price":10.5},
		"not an object",
		null,
		{"id":"s8","visible":"DISABLE","displayName":"8호","price":0}
	]`)

	opts := Parse(raw)

	require.Len(t, opts, 2)
	assert.Equal(t, "s1", opts[0].ID)
	assert.Equal(t, int64(5000), opts[0].Price)
	require.NotNil(t, opts[0].LengthCm)
	assert.Equal(t, 15.0, *opts[0].LengthCm)
	require.NotNil(t, opts[0].Description)
	assert.Equal(t, "2-3 people", *opts[0].Description)
	assert.Equal(t, "s8", opts[1].ID)
	assert.Equal(t, domain.VisibilityDisable, opts[1].Visible)
}

func TestParse_NonArrayCatalog(t *testing.T) {
	assert.Empty(t, Parse(nil))
	assert.Empty(t, Parse(json.RawMessage(`{"id":"s1"}`)))
	assert.Empty(t, Parse(json.RawMessage(`not json`)))
}

func TestResolve(t *testing.T) {
	catalog := []Option{
		{ID: "s1", Visible: domain.VisibilityEnable, DisplayName: "1호", Price: 5000},
		{ID: "s2", Visible: domain.VisibilityDisable, DisplayName: "2호", Price: 7000},
	}

	tests := []struct {
		name     string
		sel      Selection
		wantID   string
		wantNil  bool
		wantCode domain.ErrorCode
	}{
		{name: "enabled id", sel: Selection{ID: strPtr("s1")}, wantID: "s1"},
		{name: "client price ignored", sel: Selection{ID: strPtr("s1"), Price: i64Ptr(1)}, wantID: "s1"},
		{name: "disabled id", sel: Selection{ID: strPtr("s2")}, wantCode: domain.CodeInvalidOrderItems},
		{name: "unknown id", sel: Selection{ID: strPtr("s9")}, wantCode: domain.CodeInvalidOrderItems},
		{name: "nothing selected", sel: Selection{}, wantNil: true},
		{name: "details without id", sel: Selection{DisplayName: strPtr("1호")}, wantCode: domain.CodeInvalidOrderItems},
		{name: "price without id", sel: Selection{Price: i64Ptr(0)}, wantCode: domain.CodeInvalidOrderItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Resolve(catalog, tt.sel, "size")
			if tt.wantCode != "" {
				code, ok := domain.CodeOf(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, code)
				assert.Nil(t, snap)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, snap)
				return
			}
			require.NotNil(t, snap)
			assert.Equal(t, tt.wantID, snap.ID)
			assert.Equal(t, int64(5000), snap.Price)
		})
	}
}

func TestResolver_SnapshotIsDetached(t *testing.T) {
	p := &domain.Product{
		SizeOptions:   json.RawMessage(`[{"id":"s1","visible":"ENABLE","displayName":"1호","price":5000}]`),
		FlavorOptions: json.RawMessage(`[{"id":"f1","visible":"ENABLE","displayName":"Vanilla","price":0}]`),
	}
	r := NewResolver(p)

	size, err := r.Size(Selection{ID: strPtr("s1")})
	require.NoError(t, err)
	flavor, err := r.Flavor(Selection{ID: strPtr("f1")})
	require.NoError(t, err)

	p.SizeOptions = json.RawMessage(`[{"id":"s1","visible":"ENABLE","displayName":"renamed","price":9000}]`)

	assert.Equal(t, "1호", size.DisplayName)
	assert.Equal(t, int64(5000), size.Price)
	assert.Equal(t, "Vanilla", flavor.DisplayName)
}
