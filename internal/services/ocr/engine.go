package ocr

import (
	"CardSight/internal/domain/service"
)

// SelectEngine returns the first available engine from the ranked list.
// The stub engine is always available, so the chain never comes up empty.
func SelectEngine(engines ...service.OCREngine) service.OCREngine {
	for _, e := range engines {
		if e != nil && e.Available() {
			return e
		}
	}
	return NewStubEngine()
}
