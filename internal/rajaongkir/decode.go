package rajaongkir

import (
	"encoding/json"

	"ongkir-service/internal/models"

	"github.com/shopspring/decimal"
)

type envelope struct {
	RajaOngkir *struct {
		Status  *providerStatus `json:"status"`
		Results json.RawMessage `json:"results"`
	} `json:"rajaongkir"`
}

type providerStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

type costResult struct {
	Code  string        `json:"code"`
	Name  string        `json:"name"`
	Costs []costService `json:"costs"`
}

type costService struct {
	Service     string       `json:"service"`
	Description string       `json:"description"`
	Cost        []costDetail `json:"cost"`
}

type costDetail struct {
	Value *decimal.Decimal `json:"value"`
	ETD   string           `json:"etd"`
	Note  string           `json:"note"`
}

// describe pulls rajaongkir.status.description out of an error body,
// falling back to fallback when the body has no usable description
func describe(body []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}
	if env.RajaOngkir == nil || env.RajaOngkir.Status == nil || env.RajaOngkir.Status.Description == "" {
		return fallback
	}
	return env.RajaOngkir.Status.Description
}

// decodeQuote extracts rajaongkir.results[0].costs[0].cost[0].value
func decodeQuote(body []byte) (*Quote, error) {
	malformed := func() error {
		return &models.UpstreamError{Description: errMalformed, Body: truncate(body, 512)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed()
	}
	if env.RajaOngkir == nil || len(env.RajaOngkir.Results) == 0 {
		return nil, malformed()
	}

	var results []costResult
	if err := json.Unmarshal(env.RajaOngkir.Results, &results); err != nil {
		return nil, malformed()
	}
	if len(results) == 0 {
		return nil, malformed()
	}

	services := results[0].Costs
	if len(services) == 0 {
		return nil, malformed()
	}

	details := services[0].Cost
	if len(details) == 0 {
		return nil, malformed()
	}

	if details[0].Value == nil {
		return nil, malformed()
	}

	return &Quote{
		Value:   *details[0].Value,
		Service: services[0].Service,
		ETD:     details[0].ETD,
	}, nil
}
