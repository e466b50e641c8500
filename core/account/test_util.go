package account

import (
	"context"

	"github.com/SandyWyper/Know-How/core"
)

type serviceMock struct {
	*Service
}

// NewServiceMock returns a Service that sends its emails synchronously.
func NewServiceMock(
	tx core.Transactor,
	repo Repository,
	profiles ProfileCreator,
	mailSvc core.EmailService,
	conf *core.Config,
) ServiceInterface {
	return &serviceMock{Service: NewService(tx, repo, profiles, mailSvc, conf)}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !acc.IsActive {
		return ErrNotFound
	}
	// run synchronously
	svc.sendPasswordResetMail(acc)
	return nil
}
