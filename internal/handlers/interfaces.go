package handlers

import (
	"context"

	"begw/api_contact/pkg/clients/genocrm"
	"begw/api_contact/pkg/email"
)

type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

type CRMClient interface {
	Configured() bool
	SubmitApplication(ctx context.Context, app genocrm.Application) (*genocrm.RegistrationResult, error)
}
