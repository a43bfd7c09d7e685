package payments

import (
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/integrations/fakepay"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
	"github.com/reservado/Reservado-BookingService/internal/integrations/mercadopago"
)

// Selector picks the gateway per merchant: Mercado Pago when the merchant
// supplied an access token, the deterministic stub otherwise.
type Selector struct {
	mercadoPagoBaseURL string
	timeout            time.Duration
	log                Logger
	stub               *fakepay.Client
}

// NewSelector creates the production gateway selector.
func NewSelector(mercadoPagoBaseURL string, timeout time.Duration, log Logger) *Selector {
	return &Selector{
		mercadoPagoBaseURL: mercadoPagoBaseURL,
		timeout:            timeout,
		log:                log,
		stub:               fakepay.NewClient(),
	}
}

// ForMerchant implements GatewaySelector.
func (s *Selector) ForMerchant(settings *domain.MerchantSettings) gateway.Gateway {
	if settings.UsesRealGateway() {
		return mercadopago.NewClient(s.mercadoPagoBaseURL, *settings.MercadoPagoAccessToken, s.timeout, s.log)
	}
	return s.stub
}
