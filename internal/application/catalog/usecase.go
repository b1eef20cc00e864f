package catalog

import (
	"context"
	"fmt"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/product"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
)

const (
	catalogService      = "catalog-service"
	useCaseListProducts = "catalog.list"
)

// ListProductsUseCase returns the products offered on the masterclass page.
type ListProductsUseCase struct {
	products product.Repository
	inst     application.Instruments
}

var _ application.UseCase[struct{}, []product.Product] = (*ListProductsUseCase)(nil)

func NewListProductsUseCase(products product.Repository, tel observability.Observability) *ListProductsUseCase {
	return &ListProductsUseCase{
		products: products,
		inst:     application.NewInstruments(tel, catalogService),
	}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, _ struct{}) (_ []product.Product, err error) {
	ctx, run := uc.inst.Begin(ctx, useCaseListProducts, "ListProducts")
	defer func() { run.End(err) }()

	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, application.Dependency("The shop is temporarily unavailable.", fmt.Errorf("product store: %w", err))
	}
	run.AddField("products", len(list))
	return list, nil
}
