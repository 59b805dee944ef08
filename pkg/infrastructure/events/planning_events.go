package events

import (
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

const (
	RunCompletedEvent     = "run.completed"
	DemandUnmetEvent      = "demand.unmet"
	MaterialShortageEvent = "material.shortage"
	PolicyBreachEvent     = "policy.breach"
)

// AllEventTypes lists every planning event type
var AllEventTypes = []string{RunCompletedEvent, DemandUnmetEvent, MaterialShortageEvent, PolicyBreachEvent}

type RunCompleted struct {
	AssignedCases entities.Cases `json:"assigned_cases"`
	UnmetCases    entities.Cases `json:"unmet_cases"`
	Shortages     int            `json:"shortages"`
	PolicyBreach  int            `json:"policy_breaches"`
	Warnings      int            `json:"warnings"`
}

type DemandUnmet struct {
	Unmet entities.UnmetDemand `json:"unmet"`
}

type MaterialShortage struct {
	Exception entities.ExceptionRecord `json:"exception"`
}

type PolicyBreach struct {
	Position entities.PolicyAdherence `json:"position"`
}

// LogHandler reports planning events through a Logger
type LogHandler struct {
	Log logger.Logger
}

func (h LogHandler) Accepts(eventType string) bool {
	switch eventType {
	case RunCompletedEvent, DemandUnmetEvent, MaterialShortageEvent, PolicyBreachEvent:
		return true
	}
	return false
}

func (h LogHandler) Handle(event Event) error {
	switch data := event.Data().(type) {
	case RunCompleted:
		h.Log.Infof("run complete: %d cases assigned, %d unmet, %d shortages, %d policy breaches",
			data.AssignedCases, data.UnmetCases, data.Shortages, data.PolicyBreach)
	case DemandUnmet:
		h.Log.Debugw("demand unmet", map[string]any{
			"order_id": data.Unmet.OrderID,
			"sku":      string(data.Unmet.SKU),
			"date":     entities.FormatDate(data.Unmet.Date),
			"quantity": int64(data.Unmet.Quantity),
			"reason":   string(data.Unmet.Reason),
		})
	case MaterialShortage:
		h.Log.Warnf("shortage of %s on %s: %s short, %s (eta %s)", data.Exception.Material,
			entities.FormatDate(data.Exception.Date), data.Exception.ShortageQty, data.Exception.Action,
			data.Exception.FormatETA())
	case PolicyBreach:
		h.Log.Debugw("below policy", map[string]any{
			"key":             data.Position.Key,
			"dos":             data.Position.FormatDOS(),
			"recommended_qty": data.Position.RecommendedQty.String(),
		})
	}
	return nil
}
