package api

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/region"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ListProvinces(ctx context.Context) ([]region.Province, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]region.Province), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ListDistricts(ctx context.Context, provinceID int64) ([]region.District, error) {
	args := m.Called(ctx, provinceID)
	if v := args.Get(0); v != nil {
		return v.([]region.District), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ListAllDistricts(ctx context.Context) ([]region.District, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]region.District), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetDistrict(ctx context.Context, districtID int64) (*region.District, error) {
	args := m.Called(ctx, districtID)
	if v := args.Get(0); v != nil {
		return v.(*region.District), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ListDistrictCenters(ctx context.Context, provinceID int64) ([]region.DistrictCenter, error) {
	args := m.Called(ctx, provinceID)
	if v := args.Get(0); v != nil {
		return v.([]region.DistrictCenter), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, term string) ([]region.SearchResult, error) {
	args := m.Called(ctx, term)
	if v := args.Get(0); v != nil {
		return v.([]region.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}
