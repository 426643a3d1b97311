package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/prompt"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// Progress receives intermediate results of a full generation. Calls are
// serialized.
type Progress interface {
	ThreadReady(thread model.Thread)
	// ImageReady reports one image slot; img is nil when that image failed.
	ImageReady(slot model.ImageSlot, index int, img *model.Image)
}

type noProgress struct{}

func (noProgress) ThreadReady(model.Thread) {}
func (noProgress) ImageReady(model.ImageSlot, int, *model.Image) {}

// Generator runs the generation operations against a session.
type Generator struct {
	sessions *SessionService
	gateway  llm.Gateway
	history  *HistoryService
	events   EventPublisher
	logger   *logger.Logger
}

// NewGenerator creates a new generator.
func NewGenerator(
	sessions *SessionService,
	gateway llm.Gateway,
	history *HistoryService,
	events EventPublisher,
	log *logger.Logger,
) *Generator {
	if events == nil {
		events = DiscardEvents
	}
	return &Generator{
		sessions: sessions,
		gateway:  gateway,
		history:  history,
		events:   events,
		logger:   log,
	}
}

// outcome is what a successful operation applies to its session.
type outcome struct {
	apply      func(*session)
	historyID  string
	imageCount int
}

// run drives the shared operation lifecycle: set the in-flight flag and clear
// the error, do the work without holding any lock, then either apply the
// result or store the described error, and clear the flag.
func (g *Generator) run(
	ctx context.Context,
	owner, id string,
	op model.Operation,
	prepare func(*session) error,
	work func(context.Context, *snapshot, *logger.Logger) (outcome, error),
) (*model.SessionView, error) {
	snap, err := g.sessions.begin(owner, id, op, prepare)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := g.logger.With(
		zap.String("session_id", id),
		zap.String("operation", string(op)),
	)
	log.Debug("operation started")

	out, err := work(ctx, snap, log)
	view := g.sessions.finish(owner, id, op, err, out.apply)
	duration := time.Since(start)

	event := &model.OperationEvent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Owner:      owner,
		SessionID:  id,
		Operation:  op,
		Status:     model.EventSucceeded,
		HistoryID:  out.historyID,
		ImageCount: out.imageCount,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err != nil {
		event.Status = model.EventFailed
		event.Error = Describe(err)
		metrics.RecordOperation(string(op), "failed", duration.Seconds())
		log.Warn("operation failed",
			zap.String("message", event.Error),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		metrics.RecordOperation(string(op), "ok", duration.Seconds())
		log.Info("operation finished", zap.Duration("duration", duration))
	}
	publish(ctx, g.events, g.logger, event)

	if err != nil {
		return view, err
	}
	if view == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return view, nil
}

func requireThread(sess *session) error {
	if sess.thread == nil {
		return ErrNoThread
	}
	return nil
}

// Generate runs a full generation: the thread first, then every enabled image
// concurrently. Failed images are left empty. Once all images have resolved
// the result is saved to history and applied to the session. A non-nil cfg
// replaces the session's configuration first.
func (g *Generator) Generate(ctx context.Context, owner, id string, cfg *model.Configuration, progress Progress) (*model.SessionView, error) {
	if progress == nil {
		progress = noProgress{}
	}
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	prepare := func(sess *session) error {
		if cfg != nil {
			sess.config = *cfg
			return nil
		}
		return sess.config.Validate()
	}

	return g.run(ctx, owner, id, model.OpGenerate, prepare, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		thread, err := g.generateThread(ctx, prompt.Generation(snap.config), contract.OpThread, snap.config.Length, log)
		if err != nil {
			return outcome{}, err
		}
		progress.ThreadReady(*thread.Clone())

		images := g.renderThreadImages(ctx, snap.config, thread, progress, log)

		item := model.HistoryItem{
			ID:            uuid.Must(uuid.NewV7()).String(),
			Timestamp:     time.Now().UTC(),
			Configuration: snap.config,
			Thread:        *thread.Clone(),
			Images:        images.Clone(),
		}
		g.history.Add(context.WithoutCancel(ctx), owner, item)

		return outcome{
			historyID:  item.ID,
			imageCount: images.Count(),
			apply: func(sess *session) {
				sess.thread = thread
				sess.images = images
				sess.historyID = item.ID
			},
		}, nil
	})
}

// Refine rewrites the current thread following instruction. Images are not
// regenerated.
func (g *Generator) Refine(ctx context.Context, owner, id, instruction string) (*model.SessionView, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, fmt.Errorf("%w: refinement instruction is required", ErrInvalidInput)
	}

	return g.run(ctx, owner, id, model.OpRefine, requireThread, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		p := prompt.Refinement(snap.config, *snap.thread, instruction)
		thread, err := g.generateThread(ctx, p, contract.OpRefinement, snap.config.Length, log)
		if err != nil {
			return outcome{}, err
		}
		return outcome{apply: func(sess *session) {
			sess.thread = thread
		}}, nil
	})
}

// RegenerateHook replaces one hook variant.
func (g *Generator) RegenerateHook(ctx context.Context, owner, id string, hookType model.HookType) (*model.SessionView, error) {
	if !model.ValidHookType(hookType) {
		return nil, fmt.Errorf("%w: unknown hook type %q", ErrInvalidInput, hookType)
	}

	return g.run(ctx, owner, id, model.OpRegenerateHook, requireThread, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		raw, err := g.gateway.GenerateText(ctx, prompt.Hook(snap.config, hookType, snap.thread.HookVariations), nil)
		if err != nil {
			return outcome{}, err
		}
		hook, err := contract.ParseHook(raw)
		if err != nil {
			metrics.ContractViolationsTotal.WithLabelValues(string(contract.OpHook)).Inc()
			return outcome{}, err
		}
		if n := len([]rune(hook)); n > model.MaxPostChars {
			g.advise(log, []contract.Advisory{{
				Kind:   contract.AdvisoryOverLength,
				Detail: fmt.Sprintf("hook %s has %d characters", hookType, n),
			}})
		}

		return outcome{apply: func(sess *session) {
			if sess.thread == nil {
				return
			}
			t := sess.thread.Clone()
			t.HookVariations = t.HookVariations.With(hookType, hook)
			sess.thread = t
		}}, nil
	})
}

// RegenerateBody replaces the body, bridging the chosen hook and CTA (curiosity
// and question when empty). When body images are enabled they are rendered
// for the new posts and applied together with the text.
func (g *Generator) RegenerateBody(ctx context.Context, owner, id string, hookType model.HookType, ctaType model.CTAType) (*model.SessionView, error) {
	if hookType == "" {
		hookType = model.HookCuriosity
	}
	if ctaType == "" {
		ctaType = model.CTAQuestion
	}
	if !model.ValidHookType(hookType) {
		return nil, fmt.Errorf("%w: unknown hook type %q", ErrInvalidInput, hookType)
	}
	if !model.ValidCTAType(ctaType) {
		return nil, fmt.Errorf("%w: unknown cta type %q", ErrInvalidInput, ctaType)
	}

	return g.run(ctx, owner, id, model.OpRegenerateBody, requireThread, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		p := prompt.Body(
			snap.config,
			snap.thread.HookVariations.Get(hookType),
			snap.thread.CTAVariations.Get(ctaType),
			snap.thread.BodyPosts,
		)
		raw, err := g.gateway.GenerateText(ctx, p, contract.Body)
		if err != nil {
			return outcome{}, err
		}
		posts, err := contract.ParseBody(raw)
		if err != nil {
			metrics.ContractViolationsTotal.WithLabelValues(string(contract.OpBody)).Inc()
			return outcome{}, err
		}
		g.advise(log, contract.ReviewBody(posts, snap.config.Length))

		var bodyImages []*model.Image
		if snap.config.Images.GenerateBodyImages {
			bodyImages = g.render(ctx, bodyJobs(snap.config, posts), noProgress{}, log)
		}

		count := 0
		for _, img := range bodyImages {
			if img != nil {
				count++
			}
		}
		return outcome{imageCount: count, apply: func(sess *session) {
			if sess.thread == nil {
				return
			}
			t := sess.thread.Clone()
			t.BodyPosts = posts
			sess.thread = t
			images := sess.images.Clone()
			images.Body = bodyImages
			sess.images = images
		}}, nil
	})
}

// RegenerateTopicImage renders the topic image in style. The style is stored
// as the session's topic image style, in style mode, before the attempt.
func (g *Generator) RegenerateTopicImage(ctx context.Context, owner, id string, style model.ImageStyle) (*model.SessionView, error) {
	if !model.ValidImageStyle(style) {
		return nil, fmt.Errorf("%w: unknown image style %q", ErrInvalidInput, style)
	}

	prepare := func(sess *session) error {
		sess.config.Images.TopicImageStyle = style
		sess.config.Images.TopicImageMode = model.TopicImageStyle
		return nil
	}

	return g.run(ctx, owner, id, model.OpRegenerateTopic, prepare, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		img, err := g.image(ctx, model.SlotTopic, prompt.TopicImage(snap.config))
		if err != nil {
			return outcome{}, err
		}
		return outcome{imageCount: 1, apply: func(sess *session) {
			sess.images.Topic = img
		}}, nil
	})
}

// RegenerateHookImage renders the hook image for one hook variant. On success
// style becomes the session's post image style.
func (g *Generator) RegenerateHookImage(ctx context.Context, owner, id string, hookType model.HookType, style model.ImageStyle) (*model.SessionView, error) {
	if hookType == "" {
		hookType = model.HookCuriosity
	}
	if !model.ValidHookType(hookType) {
		return nil, fmt.Errorf("%w: unknown hook type %q", ErrInvalidInput, hookType)
	}
	if !model.ValidImageStyle(style) {
		return nil, fmt.Errorf("%w: unknown image style %q", ErrInvalidInput, style)
	}

	return g.run(ctx, owner, id, model.OpRegenerateHookImg, requireThread, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		p := prompt.HookImage(snap.config, snap.thread.HookVariations.Get(hookType), style)
		img, err := g.image(ctx, model.SlotHook, p)
		if err != nil {
			return outcome{}, err
		}
		return outcome{imageCount: 1, apply: func(sess *session) {
			sess.images.Hook = img
			sess.config.Images.PostImageStyle = style
		}}, nil
	})
}

// RegenerateBodyImage renders the image of one body post. On success style
// becomes the session's post image style.
func (g *Generator) RegenerateBodyImage(ctx context.Context, owner, id string, index int, style model.ImageStyle) (*model.SessionView, error) {
	if !model.ValidImageStyle(style) {
		return nil, fmt.Errorf("%w: unknown image style %q", ErrInvalidInput, style)
	}

	prepare := func(sess *session) error {
		if err := requireThread(sess); err != nil {
			return err
		}
		if index < 0 || index >= len(sess.thread.BodyPosts) {
			return fmt.Errorf("%w: body post %d does not exist", ErrInvalidInput, index)
		}
		slot := index
		sess.bodySlot = &slot
		return nil
	}

	return g.run(ctx, owner, id, model.OpRegenerateBodyImg, prepare, func(ctx context.Context, snap *snapshot, log *logger.Logger) (outcome, error) {
		p := prompt.BodyImage(snap.config, snap.thread.BodyPosts[index], style)
		img, err := g.image(ctx, model.SlotBody, p)
		if err != nil {
			return outcome{}, err
		}
		return outcome{imageCount: 1, apply: func(sess *session) {
			if sess.thread == nil || index >= len(sess.thread.BodyPosts) {
				return
			}
			images := sess.images.Clone()
			for len(images.Body) < len(sess.thread.BodyPosts) {
				images.Body = append(images.Body, nil)
			}
			images.Body[index] = img
			sess.images = images
			sess.config.Images.PostImageStyle = style
		}}, nil
	})
}

// LoadFromHistory replaces the session's configuration, thread and images with
// a history item. The item itself is not changed.
func (g *Generator) LoadFromHistory(ctx context.Context, owner, id, itemID string) (*model.SessionView, error) {
	item, err := g.history.Get(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}
	return g.sessions.load(owner, id, item)
}

// generateThread asks for a full thread and parses it. op selects the
// failure message.
func (g *Generator) generateThread(ctx context.Context, p string, op contract.Operation, length int, log *logger.Logger) (*model.Thread, error) {
	raw, err := g.gateway.GenerateText(ctx, p, contract.Thread)
	if err != nil {
		return nil, err
	}
	thread, err := contract.ParseThread(raw, op)
	if err != nil {
		metrics.ContractViolationsTotal.WithLabelValues(string(op)).Inc()
		var v *contract.Violation
		if errors.As(err, &v) {
			log.Debug("rejected reply", zap.String("reason", v.Reason), zap.Int("reply_length", len(raw)))
		}
		return nil, err
	}
	g.advise(log, contract.Review(thread, length))
	return thread, nil
}

// advise logs and counts rules the generator broke. Nothing is enforced.
func (g *Generator) advise(log *logger.Logger, advisories []contract.Advisory) {
	for _, a := range advisories {
		metrics.ContractAdvisoriesTotal.WithLabelValues(a.Kind).Inc()
		log.Info("generator broke an advisory rule",
			zap.String("kind", a.Kind),
			zap.String("detail", a.Detail),
		)
	}
}
