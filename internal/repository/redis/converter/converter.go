package converter

import "github.com/DRSN-tech/catalog-backend/internal/domain"

// ProductConverter преобразует сущности Product между domain и моделью кэша.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:            entity.ID,
		Name:          entity.Name,
		Description:   entity.Description,
		PriceCents:    entity.PriceCents,
		StockQuantity: entity.StockQuantity,
		Category:      entity.Category,
		Manufacturer:  entity.Manufacturer,
		IsActive:      entity.IsActive,
		IsDeleted:     entity.IsDeleted,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		PriceCents:    model.PriceCents,
		StockQuantity: model.StockQuantity,
		Category:      model.Category,
		Manufacturer:  model.Manufacturer,
		IsActive:      model.IsActive,
		IsDeleted:     model.IsDeleted,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
