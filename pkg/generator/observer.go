package generator

import "time"

// Stage names one step of a generation run.
type Stage string

const (
	StageLoad       Stage = "load"
	StageCatalog    Stage = "catalog"
	StageAttributes Stage = "attributes"
	StagePurchases  Stage = "purchases"
	StageWishlist   Stage = "wishlist"
	StageAbandoned  Stage = "abandoned"
	StageSegments   Stage = "segments"
	StageValidate   Stage = "validate"
	StageWrite      Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageLoad,
	StageCatalog,
	StageAttributes,
	StagePurchases,
	StageWishlist,
	StageAbandoned,
	StageSegments,
	StageValidate,
	StageWrite,
}

// Event reports a finished stage.
type Event struct {
	Stage   Stage
	Rows    int
	Elapsed time.Duration
	Err     error
}

// Observer is notified around every stage. Calls happen on the goroutine
// running the pipeline.
type Observer interface {
	StageStarted(stage Stage)
	StageFinished(event Event)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) StageStarted(Stage)  {}
func (NopObserver) StageFinished(Event) {}

// Observers fans notifications out in order.
type Observers []Observer

func (o Observers) StageStarted(stage Stage) {
	for _, obs := range o {
		obs.StageStarted(stage)
	}
}

func (o Observers) StageFinished(event Event) {
	for _, obs := range o {
		obs.StageFinished(event)
	}
}
