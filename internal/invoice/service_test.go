package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

type mocks struct {
	repo    *invoice.MockRepository
	clients *invoice.MockClientSource
	details *invoice.MockDetailsSource
}

func newMocks(t *testing.T) (*mocks, *invoice.Service) {
	ctrl := gomock.NewController(t)

	m := &mocks{
		repo:    invoice.NewMockRepository(ctrl),
		clients: invoice.NewMockClientSource(ctrl),
		details: invoice.NewMockDetailsSource(ctrl),
	}

	return m, invoice.NewService(m.repo, m.clients, m.details)
}

func validParams(clientID uuid.UUID) invoice.CreateParams {
	return invoice.CreateParams{
		ClientID: clientID,
		Date:     time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		Items: []invoice.ItemParams{
			{Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Type: invoice.TypeLabour, Description: "Fitting", Fee: 2000},
			{Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), Type: invoice.TypeMaterials, Description: "Timber", Fee: 4000},
		},
	}
}

func TestService_Create(t *testing.T) {
	clientID := uuid.New()

	type testCase struct {
		name       string
		params     invoice.CreateParams
		setupMock  func(m *mocks)
		wantErr    error
		wantNumber int
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams(clientID),
			setupMock: func(m *mocks) {
				m.clients.EXPECT().ClientSnapshot(gomock.Any(), clientID).
					Return(invoice.ClientSnapshot{ID: clientID, Name: "Acme"}, nil)
				m.details.EXPECT().DetailsSnapshot(gomock.Any()).
					Return(invoice.DetailsSnapshot{Name: "Joe Bloggs Joinery"}, nil)
				m.repo.EXPECT().LastNumber(gomock.Any()).Return(41, nil)
				m.repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						return nil
					})
			},
			wantNumber: 42,
		},
		{
			name: "ExplicitNumber",
			params: func() invoice.CreateParams {
				p := validParams(clientID)
				p.Number = 7
				return p
			}(),
			setupMock: func(m *mocks) {
				m.clients.EXPECT().ClientSnapshot(gomock.Any(), clientID).Return(invoice.ClientSnapshot{ID: clientID}, nil)
				m.details.EXPECT().DetailsSnapshot(gomock.Any()).Return(invoice.DetailsSnapshot{}, nil)
				m.repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNumber: 7,
		},
		{
			name: "UnknownItemType",
			params: func() invoice.CreateParams {
				p := validParams(clientID)
				p.Items[0].Type = "Overtime"
				return p
			}(),
			wantErr: validate.ErrValidation,
		},
		{
			name: "NoItems",
			params: func() invoice.CreateParams {
				p := validParams(clientID)
				p.Items = nil
				return p
			}(),
			wantErr: validate.ErrValidation,
		},
		{
			name: "NegativeFee",
			params: func() invoice.CreateParams {
				p := validParams(clientID)
				p.Items[1].Fee = -1
				return p
			}(),
			wantErr: validate.ErrValidation,
		},
		{
			name:   "DetailsMissing",
			params: validParams(clientID),
			setupMock: func(m *mocks) {
				m.clients.EXPECT().ClientSnapshot(gomock.Any(), clientID).Return(invoice.ClientSnapshot{ID: clientID}, nil)
				m.details.EXPECT().DetailsSnapshot(gomock.Any()).Return(invoice.DetailsSnapshot{}, errNotConfigured)
			},
			wantErr: errNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := newMocks(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, got.Number)
			assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got.Date)
			assert.Equal(t, clientID, got.Client.ID)
			assert.False(t, got.Paid)
			assert.Nil(t, got.DatePaid)
			assert.True(t, got.ItemsPrecedeDate())
		})
	}
}

var errNotConfigured = errors.New("business details not configured")

func TestService_PaidGuards(t *testing.T) {
	id := uuid.New()
	paidAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	paid := &invoice.Invoice{ID: id, Number: 3, Paid: true, DatePaid: &paidAt}

	t.Run("DeleteRejected", func(t *testing.T) {
		m, svc := newMocks(t)
		m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(paid.Clone(), nil)

		err := svc.Delete(context.Background(), id)
		assert.ErrorIs(t, err, invoice.ErrPaid)
	})

	t.Run("EditRejected", func(t *testing.T) {
		m, svc := newMocks(t)
		m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(paid.Clone(), nil)

		_, err := svc.Update(context.Background(), id, validParams(uuid.New()))
		assert.ErrorIs(t, err, invoice.ErrPaid)
	})

	t.Run("DeleteAfterUnmark", func(t *testing.T) {
		m, svc := newMocks(t)

		gomock.InOrder(
			m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(paid.Clone(), nil),
			m.repo.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
					assert.False(t, inv.Paid)
					assert.Nil(t, inv.DatePaid)
					return nil
				}),
			m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{ID: id}, nil),
			m.repo.EXPECT().DeleteInvoice(gomock.Any(), id).Return(nil),
		)

		_, err := svc.MarkUnpaid(context.Background(), id)
		require.NoError(t, err)
		require.NoError(t, svc.Delete(context.Background(), id))
	})
}

func TestService_MarkPaid(t *testing.T) {
	id := uuid.New()

	m, svc := newMocks(t)
	m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{ID: id}, nil)
	m.repo.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)

	var changes int
	svc.OnChange(func(context.Context) { changes++ })

	got, err := svc.MarkPaid(context.Background(), id, time.Date(2024, 3, 4, 17, 45, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, got.Paid)
	require.NotNil(t, got.DatePaid)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *got.DatePaid)
	assert.Equal(t, 1, changes)
}

func TestService_MarkPaid_NotFound(t *testing.T) {
	id := uuid.New()

	m, svc := newMocks(t)
	m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)

	var changes int
	svc.OnChange(func(context.Context) { changes++ })

	_, err := svc.MarkPaid(context.Background(), id, time.Time{})
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.Zero(t, changes)
}

func TestService_Update_KeepsNumber(t *testing.T) {
	id := uuid.New()
	clientID := uuid.New()

	m, svc := newMocks(t)
	m.repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{ID: id, Number: 12}, nil)
	m.clients.EXPECT().ClientSnapshot(gomock.Any(), clientID).
		Return(invoice.ClientSnapshot{ID: clientID, Name: "Renamed Ltd"}, nil)
	m.details.EXPECT().DetailsSnapshot(gomock.Any()).Return(invoice.DetailsSnapshot{Name: "Joe"}, nil)
	m.repo.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), id, validParams(clientID))
	require.NoError(t, err)

	assert.Equal(t, 12, got.Number)
	assert.Equal(t, "Renamed Ltd", got.Client.Name)
	assert.Len(t, got.Items, 2)
}

func TestParseItemType(t *testing.T) {
	got, err := invoice.ParseItemType("labour")
	require.NoError(t, err)
	assert.Equal(t, invoice.TypeLabour, got)

	_, err = invoice.ParseItemType("Overtime")

	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}
