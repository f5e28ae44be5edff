package venice

import "context"

// VVVService exposes the public VVV token telemetry endpoints. These do
// not require authentication.
type VVVService struct {
	client *Client
}

// CirculatingSupply returns the current circulating VVV supply.
func (s *VVVService) CirculatingSupply(ctx context.Context) (*CirculatingSupply, error) {
	var out CirculatingSupply
	if err := s.client.Get(ctx, "/vvv/circulating_supply", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Utilization returns current network compute utilization as a percentage.
func (s *VVVService) Utilization(ctx context.Context) (*NetworkUtilization, error) {
	var out NetworkUtilization
	if err := s.client.Get(ctx, "/vvv/utilization", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StakingYield returns the current staking APY and total staked VVV.
func (s *VVVService) StakingYield(ctx context.Context) (*StakingYield, error) {
	var out StakingYield
	if err := s.client.Get(ctx, "/vvv/staking_yield", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
