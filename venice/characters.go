package venice

import "context"

// CharacterService calls the public character catalog endpoint.
type CharacterService struct {
	client *Client
}

// List returns the public character personas. A character's Slug is used
// as VeniceParameters.CharacterSlug in chat requests.
func (s *CharacterService) List(ctx context.Context) (*CharacterList, error) {
	var out CharacterList
	if err := s.client.Get(ctx, "/characters", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
