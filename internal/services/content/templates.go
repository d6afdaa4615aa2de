package content

import (
	"context"

	"github.com/magabrotheeeer/storefront/internal/models"
)

func (s *Service) CreateTemplate(ctx context.Context, in models.NewEmailTemplate) (*models.EmailTemplate, error) {
	const op = "content.CreateTemplate"
	tpl, err := s.store.CreateEmailTemplate(ctx, in)
	if err != nil {
		return nil, wrap(op, err)
	}
	return tpl, nil
}

func (s *Service) GetTemplate(ctx context.Context, id int) (*models.EmailTemplate, error) {
	const op = "content.GetTemplate"
	tpl, err := s.store.GetEmailTemplate(ctx, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	return tpl, nil
}

func (s *Service) GetTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	const op = "content.GetTemplateByName"
	tpl, err := s.store.GetEmailTemplateByName(ctx, name)
	if err != nil {
		return nil, wrap(op, err)
	}
	return tpl, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id int, upd models.EmailTemplateUpdate) (*models.EmailTemplate, error) {
	const op = "content.UpdateTemplate"
	tpl, err := s.store.UpdateEmailTemplate(ctx, id, upd)
	if err != nil {
		return nil, wrap(op, err)
	}
	return tpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id int) error {
	const op = "content.DeleteTemplate"
	if err := s.store.DeleteEmailTemplate(ctx, id); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	const op = "content.ListTemplates"
	tpls, err := s.store.ListEmailTemplates(ctx)
	if err != nil {
		return nil, wrap(op, err)
	}
	return tpls, nil
}
