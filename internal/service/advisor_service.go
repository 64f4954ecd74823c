package service

import (
	"context"
	"time"

	"storefront-service/config"
	"storefront-service/internal/util"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// WelcomeMessage seeds every new advice transcript.
const WelcomeMessage = "Bienvenue chez " + BrandName + ". Je suis votre conseiller personnel en maroquinerie d'exception. Comment puis-je vous éclairer sur nos cuirs ou nos méthodes aujourd'hui ?"

// FallbackReply is returned on any generation failure. Errors never reach
// the customer; the atelier just goes quiet.
const FallbackReply = "L'atelier est momentanément silencieux. Puis-je vous aider d'une autre manière ?"

// MissingConfigReply is returned when no API key is configured.
const MissingConfigReply = "L'atelier est momentanément silencieux (Configuration requise)."

const advisorSystemPrompt = `Tu es un expert artisan maroquinier passionné travaillant pour "` + BrandName + `".
Ton but est d'aider les clients à comprendre la valeur du travail fait main (point de sellier, tannage végétal) et de leur donner des conseils d'entretien précis.
Utilise un ton artisanal, luxueux, précis et chaleureux.
Mets en avant le fait que chez ` + BrandName + `, nous ne faisons aucun compromis sur la qualité depuis 2020.
Réponds en français avec élégance. Limite tes réponses à environ 150 mots.`

// AdvisorService proxies single-turn advice requests to the generation
// service. Each call is stateless: only the raw user text is sent, never
// the transcript.
type AdvisorService struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewAdvisorService creates the advisor. A missing API key degrades the
// advisor to the static reply instead of failing the application.
func NewAdvisorService(cfg config.AdvisorConfig) *AdvisorService {
	s := &AdvisorService{
		model:  cfg.Model,
		logger: util.GetLogger(),
	}

	if cfg.APIKey == "" {
		s.logger.Warn("Gemini API key is missing, advisor will serve the fallback reply")
		return s
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		s.logger.Error("Failed to create genai client", zap.Error(err))
		return s
	}
	s.client = client
	return s
}

// Configured reports whether a generation client is available.
func (s *AdvisorService) Configured() bool {
	return s.client != nil
}

// Advise answers one user message. It never returns an error: any failure
// becomes the in-character fallback string.
func (s *AdvisorService) Advise(ctx context.Context, userText string) string {
	ctx, span := util.StartSpan(ctx, "AdvisorService.Advise")
	defer span.End()

	util.AdviceRequestsTotal.Inc()

	if s.client == nil {
		util.AdviceFallbacksTotal.Inc()
		return MissingConfigReply
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(userText),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(advisorSystemPrompt, genai.RoleUser),
		},
	)
	util.AdviceLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("Generation request failed", zap.Error(err))
		util.AdviceFallbacksTotal.Inc()
		return FallbackReply
	}

	text := resp.Text()
	if text == "" {
		util.AdviceFallbacksTotal.Inc()
		return FallbackReply
	}
	return text
}
