package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/prompt"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

type imageJob struct {
	slot   model.ImageSlot
	index  int
	prompt string
}

func threadJobs(cfg model.Configuration, thread *model.Thread) []imageJob {
	var jobs []imageJob
	if cfg.Images.GenerateTopicImage {
		jobs = append(jobs, imageJob{slot: model.SlotTopic, prompt: prompt.TopicImage(cfg)})
	}
	if cfg.Images.GenerateHookImage {
		hook := thread.HookVariations.Get(model.HookCuriosity)
		jobs = append(jobs, imageJob{
			slot:   model.SlotHook,
			prompt: prompt.HookImage(cfg, hook, cfg.Images.PostImageStyle),
		})
	}
	if cfg.Images.GenerateBodyImages {
		jobs = append(jobs, bodyJobs(cfg, thread.BodyPosts)...)
	}
	return jobs
}

func bodyJobs(cfg model.Configuration, posts []string) []imageJob {
	jobs := make([]imageJob, 0, len(posts))
	for i, post := range posts {
		jobs = append(jobs, imageJob{
			slot:   model.SlotBody,
			index:  i,
			prompt: prompt.BodyImage(cfg, post, cfg.Images.PostImageStyle),
		})
	}
	return jobs
}

// renderThreadImages renders every image enabled in cfg.
func (g *Generator) renderThreadImages(ctx context.Context, cfg model.Configuration, thread *model.Thread, progress Progress, log *logger.Logger) model.ThreadImages {
	jobs := threadJobs(cfg, thread)
	results := g.render(ctx, jobs, progress, log)

	var images model.ThreadImages
	if cfg.Images.GenerateBodyImages {
		images.Body = make([]*model.Image, len(thread.BodyPosts))
	}
	for i, job := range jobs {
		switch job.slot {
		case model.SlotTopic:
			images.Topic = results[i]
		case model.SlotHook:
			images.Hook = results[i]
		case model.SlotBody:
			images.Body[job.index] = results[i]
		}
	}
	return images
}

// render runs jobs concurrently and waits for all of them. A failed image is
// logged and left nil; it never fails the batch.
func (g *Generator) render(ctx context.Context, jobs []imageJob, progress Progress, log *logger.Logger) []*model.Image {
	results := make([]*model.Image, len(jobs))

	var (
		group errgroup.Group
		mu    sync.Mutex
	)
	for i, job := range jobs {
		group.Go(func() error {
			img, err := g.image(ctx, job.slot, job.prompt)
			if err != nil {
				log.Warn("image generation failed",
					zap.String("slot", string(job.slot)),
					zap.Int("index", job.index),
					zap.String("message", Describe(err)),
				)
			}
			results[i] = img

			mu.Lock()
			progress.ImageReady(job.slot, job.index, img)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	return results
}

// image renders a single picture and records the outcome.
func (g *Generator) image(ctx context.Context, slot model.ImageSlot, p string) (*model.Image, error) {
	img, err := g.gateway.GenerateImage(ctx, p)
	if err != nil {
		metrics.RecordImage(string(slot), "failed")
		return nil, err
	}
	metrics.RecordImage(string(slot), "ok")
	return img, nil
}
