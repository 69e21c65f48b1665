package addressbook

import (
	"context"
	"errors"
	"testing"

	"farm-market/internal/confirm"
	"farm-market/internal/domain"
	"farm-market/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const email = "nimal@example.com"

func saved() *domain.Address {
	return &domain.Address{
		BuyerEmail: email, FirstName: "Nimal", LastName: "Perera", Phone: "0771234567",
		Province: "Western Province", District: "Colombo", CityAddress: "12 Temple Road",
	}
}

func fill(t *testing.T, p *Panel) {
	t.Helper()
	a := saved()
	for f, v := range map[Field]string{
		FieldFirstName: a.FirstName, FieldLastName: a.LastName, FieldPhone: a.Phone,
		FieldProvince: a.Province, FieldDistrict: a.District, FieldCityAddress: a.CityAddress,
	} {
		require.NoError(t, p.Set(f, v))
	}
}

func TestMount(t *testing.T) {
	tests := []struct {
		name     string
		ret      *domain.Address
		err      error
		wantMode Mode
		wantName string
	}{
		{name: "saved address shows read-only", ret: saved(), wantMode: ModeView, wantName: "Nimal"},
		{name: "absent address opens the form", wantMode: ModeEdit},
		{name: "lookup failure falls back to the form", err: domain.ErrTransport, wantMode: ModeEdit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockAddressStore)
			if tt.ret != nil {
				store.On("GetAddress", mock.Anything, email).Return(tt.ret, nil)
			} else {
				store.On("GetAddress", mock.Anything, email).Return(nil, tt.err)
			}

			p := NewPanel(store, " Nimal@Example.com ")
			p.Mount(context.Background())

			assert.Equal(t, tt.wantMode, p.Mode())
			assert.Equal(t, tt.wantName, p.Address().FirstName)
			assert.Equal(t, tt.ret != nil, p.HasSaved())
			assert.Empty(t, p.Message)
		})
	}
}

func TestSetRequiresEditMode(t *testing.T) {
	store := new(mocks.MockAddressStore)
	store.On("GetAddress", mock.Anything, email).Return(saved(), nil)

	p := NewPanel(store, email)
	p.Mount(context.Background())
	assert.ErrorIs(t, p.Set(FieldPhone, "0110000000"), ErrReadOnly)

	p.Edit()
	require.NoError(t, p.Set(FieldPhone, "0110000000"))
	assert.Equal(t, "0110000000", p.Address().Phone)
	assert.ErrorIs(t, p.Set("zip", "10100"), ErrUnknownField)
}

func TestSave(t *testing.T) {
	t.Run("missing fields never reach the store", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		p := NewPanel(store, email)
		require.NoError(t, p.Set(FieldFirstName, "Nimal"))

		err := p.Save(context.Background())
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, p.Message, "please fill all required fields")
		assert.Equal(t, ModeEdit, p.Mode())
		store.AssertNotCalled(t, "SaveAddress", mock.Anything, mock.Anything)
	})

	t.Run("success flips to view mode", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("SaveAddress", mock.Anything, mock.MatchedBy(func(a *domain.Address) bool {
			return *a == *saved()
		})).Return(nil)

		p := NewPanel(store, email)
		fill(t, p)
		require.NoError(t, p.Save(context.Background()))
		assert.Equal(t, ModeView, p.Mode())
		assert.True(t, p.HasSaved())
		store.AssertExpectations(t)
	})

	t.Run("failure keeps the entered values", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("SaveAddress", mock.Anything, mock.Anything).
			Return(&domain.RemoteError{StatusCode: 500, Message: "database unavailable"})

		p := NewPanel(store, email)
		fill(t, p)
		err := p.Save(context.Background())
		assert.ErrorIs(t, err, domain.ErrTransport)
		assert.Equal(t, "database unavailable", p.Message)
		assert.Equal(t, ModeEdit, p.Mode())
		assert.Equal(t, "12 Temple Road", p.Address().CityAddress)
	})

	t.Run("failure without server detail uses fallback", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("SaveAddress", mock.Anything, mock.Anything).Return(&domain.RemoteError{StatusCode: 422})

		p := NewPanel(store, email)
		fill(t, p)
		require.Error(t, p.Save(context.Background()))
		assert.Equal(t, "Failed to save address", p.Message)
	})

	t.Run("server error without body reports the status", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("SaveAddress", mock.Anything, mock.Anything).Return(&domain.RemoteError{StatusCode: 502})

		p := NewPanel(store, email)
		fill(t, p)
		require.Error(t, p.Save(context.Background()))
		assert.Equal(t, "market service returned status 502", p.Message)
	})
}

func TestDelete(t *testing.T) {
	t.Run("declined does nothing", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("GetAddress", mock.Anything, email).Return(saved(), nil)

		p := NewPanel(store, email)
		p.Mount(context.Background())
		assert.ErrorIs(t, p.Delete(context.Background(), confirm.Never), confirm.ErrDeclined)
		assert.Equal(t, ModeView, p.Mode())
		store.AssertNotCalled(t, "DeleteAddress", mock.Anything, mock.Anything)
	})

	t.Run("confirmed resets to blank form", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("GetAddress", mock.Anything, email).Return(saved(), nil)
		store.On("DeleteAddress", mock.Anything, email).Return(nil)

		p := NewPanel(store, email)
		p.Mount(context.Background())
		require.NoError(t, p.Delete(context.Background(), confirm.Always))
		assert.Equal(t, ModeEdit, p.Mode())
		assert.False(t, p.HasSaved())
		assert.Equal(t, domain.BlankAddress(email), p.Address())
	})

	t.Run("failure keeps the address", func(t *testing.T) {
		store := new(mocks.MockAddressStore)
		store.On("GetAddress", mock.Anything, email).Return(saved(), nil)
		store.On("DeleteAddress", mock.Anything, email).Return(errors.New("boom"))

		p := NewPanel(store, email)
		p.Mount(context.Background())
		require.Error(t, p.Delete(context.Background(), confirm.Always))
		assert.Equal(t, "boom", p.Message)
		assert.True(t, p.HasSaved())
		assert.Equal(t, "Nimal", p.Address().FirstName)
	})
}
