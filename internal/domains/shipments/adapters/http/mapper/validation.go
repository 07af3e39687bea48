package mapper

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
)

var registerOnce sync.Once

// RegisterValidations installs the shipment-specific binding rules on gin's
// validator engine. Safe to call from every handler constructor.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("shipment_status", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseStatus(fl.Field().String())
			return err == nil
		})
	})
}
