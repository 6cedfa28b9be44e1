// Package quest runs the synthesis pipeline: profile lookup, prompt
// build, model call, schema check, audit log.
package quest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goto-quest-backend/internal/ai"
	"goto-quest-backend/internal/profile"
	"goto-quest-backend/internal/questlog"
)

var (
	ErrGeneration   = errors.New("quest generation failed")
	ErrInvalidQuest = errors.New("generated quest data is invalid")
)

type Generator struct {
	Profiles *profile.Store
	Log      *questlog.Log
	AI       *ai.OpenAIClient
	Logger   *zap.SugaredLogger
}

func New(profiles *profile.Store, log *questlog.Log, aiClient *ai.OpenAIClient, logger *zap.SugaredLogger) *Generator {
	return &Generator{
		Profiles: profiles,
		Log:      log,
		AI:       aiClient,
		Logger:   logger,
	}
}

// GenerateQuest produces one validated quest for the customer. A quest
// is either fully valid and logged, or discarded; nothing partial is
// ever returned or persisted.
func (g *Generator) GenerateQuest(ctx context.Context, customerID string) (map[string]any, error) {
	p, err := g.Profiles.GetProfile(customerID)
	if err != nil {
		g.Logger.Errorw("get customer profile", "customer_id", customerID, "err", err)
		return nil, err
	}

	prompt := ai.BuildQuestPrompt(customerID, p)

	raw, err := g.AI.GenerateQuest(ctx, prompt)
	if err != nil {
		g.Logger.Errorw("call generation service", "customer_id", customerID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var quest map[string]any
	if err := json.Unmarshal([]byte(raw), &quest); err != nil {
		g.Logger.Errorw("parse generated quest", "customer_id", customerID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	// The service-provided id is discarded; downstream logging keys off
	// the server-generated one.
	quest["quest_id"] = uuid.NewString()

	if violations := Validate(quest); len(violations) > 0 {
		g.Logger.Warnw("generated quest rejected",
			"customer_id", customerID,
			"violations", violations,
		)
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuest, strings.Join(violations, "; "))
	}

	if err := g.Log.Append(customerID, quest, questlog.StatusGenerated); err != nil {
		return nil, err
	}

	return quest, nil
}
