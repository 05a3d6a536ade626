package predictions

import "github.com/Veraticus/evento/internal/model"

// Fixture is a predefined prediction for a known prompt.
type Fixture interface {
	Name() string
	Prediction() model.Prediction
}

type fixture struct {
	name       string
	prediction model.Prediction
}

func (f *fixture) Name() string { return f.name }

// Prediction returns a copy of the fixture's prediction.
func (f *fixture) Prediction() model.Prediction {
	p := f.prediction
	p.Confidences = append([]float64(nil), f.prediction.Confidences...)
	return p
}

// Predefined fixtures built from the two annotated examples.
var (
	// FixtureMeeting is the sound-provider meeting: 3PM, no weekday, pending.
	FixtureMeeting Fixture = &fixture{
		name: "Meeting",
		prediction: model.Prediction{
			Prompt:      "Reunión con proveedor de sonido, 3PM en la oficina central, pendiente de pago.",
			Confidences: []float64{0.91, 0.88, 0.95, 0.97, 0.42, 0.12, 0.07, 0.03},
			Record: model.EventRecord{
				Provider:      model.UnknownProvider,
				Location:      model.UnknownLocation,
				Description:   model.PromptDescription,
				Time:          "15:00",
				Date:          "YYYY-MM-DD",
				ActivityType:  model.ActivityEventual,
				PaymentStatus: model.PaymentPendiente,
			},
		},
	}

	// FixtureConcert is the paid Friday jazz concert.
	FixtureConcert Fixture = &fixture{
		name: "Concert",
		prediction: model.Prediction{
			Prompt:      "Concierto de jazz el viernes, 8PM, costo: 50USD, pagado.",
			Confidences: []float64{0.89, 0.93, 0.96, 0.98, 0.94, 0.92, 0.11, 0.86},
			Record: model.EventRecord{
				Provider:      model.UnknownProvider,
				Location:      model.UnknownLocation,
				Description:   model.PromptDescription,
				Time:          "20:00",
				Date:          "2025-01-10",
				Amount:        50,
				ActivityType:  model.ActivityEventual,
				PaymentStatus: model.PaymentPagado,
			},
		},
	}
)
