package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reservado/Reservado-BookingService/pkg/ptr"
)

func TestComputeDeposit(t *testing.T) {
	tests := []struct {
		name     string
		offering *ServiceOffering
		settings *MerchantSettings
		total    float64
		want     float64
	}{
		{
			name:     "service fixed amount wins over everything",
			offering: &ServiceOffering{DepositFixedAmount: ptr.Ptr(80.0), DepositPercentage: ptr.Ptr(10.0)},
			settings: &MerchantSettings{RequireDeposit: true, DepositPercentage: 50},
			total:    200,
			want:     80,
		},
		{
			name:     "service percentage beats merchant percentage",
			offering: &ServiceOffering{DepositPercentage: ptr.Ptr(30.0)},
			settings: &MerchantSettings{RequireDeposit: true, DepositPercentage: 50},
			total:    200,
			want:     60,
		},
		{
			name:     "merchant percentage applies when service is silent",
			offering: &ServiceOffering{},
			settings: &MerchantSettings{RequireDeposit: true, DepositPercentage: 25},
			total:    200,
			want:     50,
		},
		{
			name:     "no deposit when merchant does not require one",
			offering: &ServiceOffering{},
			settings: &MerchantSettings{RequireDeposit: false, DepositPercentage: 25},
			total:    200,
			want:     0,
		},
		{
			name:     "fixed amount clamped to total",
			offering: &ServiceOffering{DepositFixedAmount: ptr.Ptr(300.0)},
			settings: &MerchantSettings{},
			total:    200,
			want:     200,
		},
		{
			name:     "percentage rounds half up to cents",
			offering: &ServiceOffering{DepositPercentage: ptr.Ptr(33.0)},
			settings: &MerchantSettings{},
			total:    99.99,
			want:     33.00,
		},
		{
			name:     "zero total yields zero deposit",
			offering: &ServiceOffering{DepositPercentage: ptr.Ptr(50.0)},
			settings: &MerchantSettings{},
			total:    0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDeposit(tt.offering, tt.settings, tt.total))
		})
	}
}
