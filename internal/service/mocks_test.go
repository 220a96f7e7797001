package service_test

import (
	"context"

	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	"github.com/iyhunko/sheets-storefront/internal/sqs"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Create(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	args := m.Called(ctx, snapshot)
	if fn, ok := args.Get(0).(func(context.Context, *model.Snapshot) *model.Snapshot); ok {
		return fn(ctx, snapshot), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Latest(ctx context.Context) (*model.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) List(ctx context.Context, query repository.Query) ([]*model.Snapshot, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Snapshot), args.Error(1)
}

// MockSource is a mock implementation of source.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return "mock"
}

func (m *MockSource) FetchRows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

// MockPublisher is a mock implementation of service.InquiryPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishInquiry(ctx context.Context, msg sqs.InquiryMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
