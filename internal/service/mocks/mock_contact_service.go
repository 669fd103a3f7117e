package mocks

import (
	"context"

	"hammercms/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, sub model.ContactSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
