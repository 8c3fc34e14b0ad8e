package recommend

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/session"
	"github.com/learningnavigator/navigator/internal/service/translate"
)

var (
	ErrRoleRequired = errors.New("please select your role first")
	ErrUnknownRole  = errors.New("no recommendations for this role")
)

// Remote fetches personalised recommendations for a signed-in user.
type Remote interface {
	Recommendations(ctx context.Context) (recommend.Response, error)
}

// Identity is the slice of the session context this service reads.
type Identity interface {
	IsGuest() bool
	IsAuthenticated() bool
	Role() string
	Language() string
}

// Service picks local or remote recommendations depending on who is asking.
type Service struct {
	local      recommend.Store
	remote     Remote
	translator *translate.Service
	identity   Identity
	translate  bool
	logger     zerolog.Logger
}

// NewService wires the service. translator may be nil when translation is disabled.
func NewService(local recommend.Store, remote Remote, identity Identity, translator *translate.Service, useTranslate bool) *Service {
	return &Service{
		local:      local,
		remote:     remote,
		translator: translator,
		identity:   identity,
		translate:  useTranslate && translator != nil,
		logger:     logging.Component("recommend"),
	}
}

// Load returns the recommendations for the current user.
func (s *Service) Load(ctx context.Context) (recommend.Response, error) {
	if s.identity.IsGuest() || !s.identity.IsAuthenticated() {
		return s.loadLocal()
	}

	resp, err := s.remote.Recommendations(ctx)
	if err != nil {
		return recommend.Response{}, errors.Wrap(err, "failed to load recommendations")
	}
	if resp.Role == "" {
		// 后端在用户未设置角色时返回 role:null
		return recommend.Response{}, ErrRoleRequired
	}

	if s.translate && s.identity.Language() == session.LanguageSpanish {
		s.logger.Debug().Str("role", resp.Role).Msg("translating recommendations")
		resp.Recommendations = s.translator.TranslateRecommendations(ctx, resp.Recommendations, "es")
	}
	return resp, nil
}

func (s *Service) loadLocal() (recommend.Response, error) {
	role := s.identity.Role()
	if role == "" {
		return recommend.Response{}, ErrRoleRequired
	}
	set, ok := s.local.FindByRole(role)
	if !ok {
		return recommend.Response{}, errors.Wrap(ErrUnknownRole, role)
	}
	return recommend.Response{Role: role, Recommendations: set}, nil
}
