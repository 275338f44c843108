package worker

// alert_worker.go
// Processes low-stock alert jobs from QueueAlerts and mails the configured
// recipient. SMTP sends go through the circuit breaker so a downed mail
// server cannot pile up blocked workers.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"

	"github.com/rs/zerolog/log"
)

type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, to string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, to: to}
}

// Process sends one low-stock notification email.
func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload LowStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if w.to == "" {
		log.Warn().Msg("alert_worker: no ALERT_EMAIL_TO configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.ProductName)
	body := fmt.Sprintf(
		"El producto %s (id %s) quedó con %d unidades en stock.\nRevise el inventario y registre un INGRESO si corresponde.",
		payload.ProductName, payload.ProductID, payload.Stock,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.to, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("product", payload.ProductName).Msg("alert_worker: failed to send alert")
		return err
	}
	log.Info().Str("product", payload.ProductName).Int("stock", payload.Stock).Msg("alert_worker: low-stock alert sent")
	return nil
}
