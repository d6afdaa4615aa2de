package memory

import (
	"context"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const defaultCryptoCurrency = "ETH"

func (s *Storage) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	const op = "storage.memory.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := models.Product{
		ID:               s.id("products"),
		Name:             in.Name,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Images:           in.Images,
		Platforms:        in.Platforms,
		FirebaseConfig:   in.FirebaseConfig,
		DownloadLink:     in.DownloadLink,
		ZipPassword:      in.ZipPassword,
		IsActive:         in.IsActive == nil || *in.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	p = cloneProduct(p)
	s.products[p.ID] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s *Storage) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.memory.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	out := cloneProduct(p)
	return &out, nil
}

func (s *Storage) UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	const op = "storage.memory.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.ShortDescription != nil {
		p.ShortDescription = *upd.ShortDescription
	}
	if upd.Images != nil {
		p.Images = upd.Images
	}
	if upd.Platforms != nil {
		p.Platforms = upd.Platforms
	}
	if upd.FirebaseConfig != nil {
		p.FirebaseConfig = upd.FirebaseConfig
	}
	if upd.DownloadLink != nil {
		p.DownloadLink = upd.DownloadLink
	}
	if upd.ZipPassword != nil {
		p.ZipPassword = upd.ZipPassword
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	p.UpdatedAt = s.now()
	p = cloneProduct(p)
	s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

// DeleteProduct удаляет продукт и его планы. Продукт с подписками не удаляется.
func (s *Storage) DeleteProduct(ctx context.Context, id int) error {
	const op = "storage.memory.DeleteProduct"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperr.NotFound("Product not found")
	}
	for _, sub := range s.subscriptions {
		if sub.ProductID == id {
			return apperr.Conflict("Product has subscriptions and cannot be deleted")
		}
	}
	for planID, plan := range s.plans {
		if plan.ProductID == id {
			delete(s.plans, planID)
		}
	}
	delete(s.products, id)
	return nil
}

// ListProducts возвращает страницу продуктов и общее число подходящих под фильтр.
func (s *Storage) ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error) {
	const op = "storage.memory.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []models.Product
	for _, p := range sortedValues(s.products) {
		if active != nil && p.IsActive != *active {
			continue
		}
		filtered = append(filtered, cloneProduct(p))
	}
	return storage.Paginate(filtered, page), len(filtered), nil
}

// CreatePlan добавляет план существующему продукту.
func (s *Storage) CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error) {
	const op = "storage.memory.CreatePlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[in.ProductID]; !ok {
		return nil, apperr.NotFound("Product not found")
	}
	currency := in.CryptoCurrency
	if currency == "" {
		currency = defaultCryptoCurrency
	}
	p := models.SubscriptionPlan{
		ID:             s.id("plans"),
		ProductID:      in.ProductID,
		Name:           in.Name,
		Price:          in.Price,
		PriceCrypto:    in.PriceCrypto,
		CryptoCurrency: currency,
		Interval:       in.Interval,
		Features:       cloneStrings(in.Features),
		IsPopular:      in.IsPopular,
		CreatedAt:      s.now(),
	}
	s.plans[p.ID] = p
	out := clonePlan(p)
	return &out, nil
}

func (s *Storage) GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error) {
	const op = "storage.memory.GetPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, apperr.NotFound("Subscription plan not found")
	}
	out := clonePlan(p)
	return &out, nil
}

func (s *Storage) UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error) {
	const op = "storage.memory.UpdatePlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, apperr.NotFound("Subscription plan not found")
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.PriceCrypto != nil {
		p.PriceCrypto = *upd.PriceCrypto
	}
	if upd.CryptoCurrency != nil {
		p.CryptoCurrency = *upd.CryptoCurrency
	}
	if upd.Interval != nil {
		p.Interval = *upd.Interval
	}
	if upd.Features != nil {
		p.Features = cloneStrings(upd.Features)
	}
	if upd.IsPopular != nil {
		p.IsPopular = *upd.IsPopular
	}
	s.plans[id] = p
	out := clonePlan(p)
	return &out, nil
}

// DeletePlan удаляет план, если на него не ссылается ни одна подписка.
func (s *Storage) DeletePlan(ctx context.Context, id int) error {
	const op = "storage.memory.DeletePlan"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return apperr.NotFound("Subscription plan not found")
	}
	for _, sub := range s.subscriptions {
		if sub.PlanID == id {
			return apperr.Conflict("Subscription plan is in use and cannot be deleted")
		}
	}
	delete(s.plans, id)
	return nil
}

func (s *Storage) PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error) {
	const op = "storage.memory.PlansByProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := []models.SubscriptionPlan{}
	for _, p := range sortedValues(s.plans) {
		if p.ProductID == productID {
			plans = append(plans, clonePlan(p))
		}
	}
	return plans, nil
}
