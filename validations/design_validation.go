package validations

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/daeho-materials/daeho-web/domains/design"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
)

// ValidateSettings enforces the structural invariant of the canonical
// document: version, sections and productCards must all be present.
func ValidateSettings(ctx context.Context, settings design.Settings) error {
	err := validation.ValidateStructWithContext(ctx, &settings,
		validation.Field(&settings.Version, validation.Required),
		validation.Field(&settings.Sections, validation.Required),
		validation.Field(&settings.ProductCards, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	for name, section := range settings.Sections {
		err := validation.ValidateStructWithContext(ctx, &section,
			validation.Field(&section.Opacity, validation.Min(0), validation.Max(100)),
		)
		if err != nil {
			return pkgError.ValidationError(fmt.Sprintf("section %q: %s", name, err.Error()))
		}
	}

	return nil
}
