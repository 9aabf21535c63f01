package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/daeho-materials/daeho-web/domains/contact"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
)

func ValidateContactSubmit(ctx context.Context, request contact.SubmitRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&request.Email, validation.Required, is.EmailFormat),
		validation.Field(&request.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&request.Body, validation.Required, validation.Length(1, 5000)),
		validation.Field(&request.Locale, validation.Required, validation.In("ko", "en")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
