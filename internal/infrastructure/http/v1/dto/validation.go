package dto

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator:
//
//	itemtype    kitchen, bar, housekeeping or minibar
//	stockaction a known ledger action
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
			return item.Type(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("stockaction", func(fl validator.FieldLevel) bool {
			return stock.Action(fl.Field().String()).Valid()
		})
	})
}
