package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/client/store"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(repo *client.MockRepository, invs *client.MockInvoiceLookup)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NoInvoices",
			setupMock: func(repo *client.MockRepository, invs *client.MockInvoiceLookup) {
				invs.EXPECT().WithClientID(gomock.Any(), id).Return(nil, nil)
				repo.EXPECT().DeleteClient(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "InvoicesAttached",
			setupMock: func(repo *client.MockRepository, invs *client.MockInvoiceLookup) {
				invs.EXPECT().WithClientID(gomock.Any(), id).Return([]*invoice.Invoice{{Number: 1}}, nil)
			},
			wantErr: client.ErrHasInvoices,
		},
		{
			name: "LookupFails",
			setupMock: func(repo *client.MockRepository, invs *client.MockInvoiceLookup) {
				invs.EXPECT().WithClientID(gomock.Any(), id).Return(nil, errors.New("timeout"))
			},
			wantErr: errors.New("checking client invoices: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			invs := client.NewMockInvoiceLookup(ctrl)
			tt.setupMock(repo, invs)

			err := client.NewService(repo, invs).Delete(context.Background(), id)

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, client.ErrHasInvoices):
				assert.ErrorIs(t, err, client.ErrHasInvoices)
				assert.EqualError(t, err, "cannot delete, invoices attached")
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestService_Create_Validation(t *testing.T) {
	type testCase struct {
		name      string
		params    client.Params
		wantField string
	}

	tests := []testCase{
		{"MissingName", client.Params{Address: []string{"1 High St"}}, "name"},
		{"BadEmail", client.Params{Name: "Acme", Email: "acme", Address: []string{"1 High St"}}, "email"},
		{"NoAddress", client.Params{Name: "Acme"}, "address"},
		{"TooManyLines", client.Params{Name: "Acme", Address: []string{"a", "b", "c", "d"}}, "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := client.NewService(store.NewMemory(), nil)

			_, err := svc.Create(context.Background(), tt.params)

			var verr *validate.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestService_SnapshotIsCopy(t *testing.T) {
	repo := store.NewMemory()
	svc := client.NewService(repo, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, client.Params{Name: "Acme", Address: []string{"1 High St", "Leeds"}, Postcode: "LS1 1AA"})
	require.NoError(t, err)

	snap, err := svc.ClientSnapshot(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", snap.Name)
	assert.Equal(t, c.ID, snap.ID)

	_, err = svc.Update(ctx, c.ID, client.Params{Name: "Acme Holdings", Address: []string{"2 Low St"}})
	require.NoError(t, err)

	assert.Equal(t, "Acme", snap.Name)
	assert.Equal(t, []string{"1 High St", "Leeds"}, snap.Address)

	_, err = svc.ClientSnapshot(ctx, uuid.New())
	assert.ErrorIs(t, err, client.ErrNotFound)
}
