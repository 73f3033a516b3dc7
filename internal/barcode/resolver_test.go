package barcode

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guiamercado/guiamercado-backend/internal/products"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

type stubLookup struct {
	calls   []string
	results []products.ProductDTO
	err     error
}

func (s *stubLookup) ProductsByBarcode(_ context.Context, code string) ([]products.ProductDTO, error) {
	s.calls = append(s.calls, code)
	return s.results, s.err
}

type stubConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (s *stubConfirmer) ConfirmCreate(_ context.Context, code string) (bool, error) {
	s.asked = append(s.asked, code)
	return s.answer, s.err
}

func product(name, code string) products.ProductDTO {
	return products.ProductDTO{ID: uuid.New(), Name: name, Barcode: &code}
}

func newResolver(t *testing.T, lookup Lookup, confirm Confirmer) *Resolver {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	r, err := NewResolver(lookup, confirm, logg)
	require.NoError(t, err)
	return r
}

func TestResolveMatchesLoadedProductsFirst(t *testing.T) {
	lookup := &stubLookup{}
	confirm := &stubConfirmer{}
	r := newResolver(t, lookup, confirm)

	loaded := []products.ProductDTO{product("Feijão", "111"), product("Arroz", "789")}
	out, err := r.Resolve(context.Background(), " 789 ", loaded)
	require.NoError(t, err)

	assert.Equal(t, ActionSelect, out.Action)
	assert.Equal(t, "Arroz", out.Product.Name)
	assert.Empty(t, lookup.calls)
	assert.Empty(t, confirm.asked)
}

func TestResolveFallsBackToLookup(t *testing.T) {
	lookup := &stubLookup{results: []products.ProductDTO{product("Café", "555")}}
	confirm := &stubConfirmer{}
	r := newResolver(t, lookup, confirm)

	out, err := r.Resolve(context.Background(), "555", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionSelect, out.Action)
	assert.Equal(t, "Café", out.Product.Name)
	assert.Equal(t, []string{"555"}, lookup.calls)
	assert.Empty(t, confirm.asked)
}

func TestResolveOffersCreate(t *testing.T) {
	cases := []struct {
		name   string
		lookup *stubLookup
		answer bool
		want   Action
	}{
		{"not found accepted", &stubLookup{}, true, ActionCreate},
		{"not found declined", &stubLookup{}, false, ActionNone},
		{"lookup failure accepted", &stubLookup{err: errors.New("offline")}, true, ActionCreate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			confirm := &stubConfirmer{answer: tc.answer}
			r := newResolver(t, tc.lookup, confirm)

			out, err := r.Resolve(context.Background(), "000123", nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Action)
			assert.Equal(t, []string{"000123"}, confirm.asked)
			if tc.want == ActionCreate {
				require.NotNil(t, out.Draft)
				assert.Equal(t, "000123", *out.Draft.Barcode)
				assert.Empty(t, out.Draft.Name)
			} else {
				assert.Nil(t, out.Draft)
			}
		})
	}
}

func TestResolveRejectsBlankCode(t *testing.T) {
	r := newResolver(t, &stubLookup{}, &stubConfirmer{})
	_, err := r.Resolve(context.Background(), "   ", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestResolvePropagatesConfirmerError(t *testing.T) {
	boom := errors.New("stdin closed")
	r := newResolver(t, &stubLookup{}, &stubConfirmer{err: boom})
	_, err := r.Resolve(context.Background(), "42", nil)
	require.ErrorIs(t, err, boom)
}

func TestNewResolverRequiresDependencies(t *testing.T) {
	_, err := NewResolver(nil, &stubConfirmer{}, nil)
	require.Error(t, err)
	_, err = NewResolver(&stubLookup{}, nil, nil)
	require.Error(t, err)

	r, err := NewResolver(&stubLookup{}, ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil }), nil)
	require.NoError(t, err)
	out, err := r.Resolve(context.Background(), "1", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, out.Action)
}
