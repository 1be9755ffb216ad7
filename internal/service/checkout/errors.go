package checkout

import "github.com/vladislavdragonenkov/checkout/internal/domain"

// ErrorKind классифицирует провал шага саги для маппинга на HTTP-статусы.
type ErrorKind string

const (
	// KindTransport — сетевая ошибка, таймаут или не-2xx от downstream-сервиса (→ 502).
	KindTransport ErrorKind = "transport"
	// KindRejected — бизнес-отказ: валидация не прошла или платёж отклонён (→ 400).
	KindRejected ErrorKind = "rejected"
	// KindNotFound — отсутствующий ресурс, упомянутый в запросе (→ 404/400).
	KindNotFound ErrorKind = "not_found"
)

// StepError описывает провал конкретного шага саги.
// Kind=rejected несёт исходный ответ downstream-сервиса в Detail.
type StepError struct {
	Step    domain.CheckoutStep
	Kind    ErrorKind
	Message string
	Detail  interface{}
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func transportErr(step domain.CheckoutStep, message string, err error) *StepError {
	return &StepError{Step: step, Kind: KindTransport, Message: message, Err: err}
}

func rejectedErr(step domain.CheckoutStep, message string, detail interface{}) *StepError {
	return &StepError{Step: step, Kind: KindRejected, Message: message, Detail: detail}
}

func notFoundErr(step domain.CheckoutStep, message string, err error) *StepError {
	return &StepError{Step: step, Kind: KindNotFound, Message: message, Err: err}
}
