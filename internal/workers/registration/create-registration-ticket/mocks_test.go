package createregistrationticket

import (
	"context"

	"github.com/stretchr/testify/mock"

	"onboarding-workers/internal/models"
)

type MockCards struct{ mock.Mock }

func (m *MockCards) Lookup(ctx context.Context, cardNumber string) (string, error) {
	args := m.Called(ctx, cardNumber)
	return args.String(0), args.Error(1)
}

type MockPolicies struct{ mock.Mock }

func (m *MockPolicies) LookupPolicyDetail(ctx context.Context, key models.PolicyKey) (*models.PolicyDetail, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PolicyDetail), args.Error(1)
}

type MockCustomers struct{ mock.Mock }

func (m *MockCustomers) GetCustomer(ctx context.Context, clientID string) (*models.CustomerRecord, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerRecord), args.Error(1)
}

type MockDocumentTypes struct{ mock.Mock }

func (m *MockDocumentTypes) ListRegisteredDocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DocumentType), args.Error(1)
}

type MockTicketClient struct{ mock.Mock }

func (m *MockTicketClient) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketClient) Close() error {
	return m.Called().Error(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func factoryFor(client TicketClient) TicketClientFactory {
	return func() (TicketClient, error) { return client, nil }
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func registeredDocumentTypes() []models.DocumentType {
	return []models.DocumentType{
		{Code: "1", Label: "DNI"},
		{Code: "2", Label: "PASSPORT"},
	}
}
