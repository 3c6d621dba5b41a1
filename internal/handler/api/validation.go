package api

import (
	"FinRisk/internal/domain/models"
	xhttp "FinRisk/pkg/http"
)

func init() {
	if err := xhttp.RegisterValidation(models.TaxIDTag, models.TaxIDValidation, models.TaxIDMessage); err != nil {
		panic(err)
	}
}
