package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"promptyoself/internal/config"
	"promptyoself/internal/domain"
	"promptyoself/internal/scheduler"
)

func register(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}

	req := scheduler.RegisterRequest{
		Recipient:      recipient,
		Payload:        payload,
		At:             atSpec,
		Cron:           cronSpec,
		Every:          everySpec,
		MaxRepetitions: maxReps,
	}
	sched, err := scheduler.BuildSchedule(req, time.Now())
	if err != nil {
		return fail(err)
	}

	if validate {
		gw, err := newGateway(cfg)
		if err != nil {
			return fail(err)
		}
		exists, err := gw.AgentExists(context.Background(), sched.Recipient)
		if err != nil {
			return fail(err)
		}
		if !exists {
			return fail(domain.Validationf("recipient %s does not exist", sched.Recipient))
		}
	}

	repo, db, err := openRepo(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	id, err := repo.Create(context.Background(), sched)
	if err != nil {
		return fail(err)
	}

	printJSON(map[string]any{
		"status":   "success",
		"id":       id,
		"next_run": sched.NextRun.Format(time.RFC3339),
		"message":  fmt.Sprintf("Prompt scheduled with ID %s", id),
	})
	return nil
}

func list(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	repo, db, err := openRepo(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	schedules, err := repo.List(context.Background(), listRecipient, listAll)
	if err != nil {
		return fail(err)
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	printJSON(map[string]any{
		"status":    "success",
		"schedules": schedules,
		"count":     len(schedules),
	})
	return nil
}

func cancel(ctx *cli.Context) error {
	if cancelID == "" {
		return fail(domain.Validationf("missing required argument: id"))
	}

	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	repo, db, err := openRepo(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	ok, err := repo.Deactivate(context.Background(), cancelID)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(&domain.NotFoundError{ID: cancelID})
	}

	printJSON(map[string]any{
		"status":       "success",
		"cancelled_id": cancelID,
		"message":      fmt.Sprintf("Schedule %s cancelled", cancelID),
	})
	return nil
}

func execute(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	repo, db, err := openRepo(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	gw, err := newGateway(cfg)
	if err != nil {
		return fail(err)
	}
	executor := scheduler.NewExecutor(repo, gw)

	if loopMode {
		interval := cfg.PollInterval
		if loopInterval > 0 {
			interval = time.Duration(loopInterval) * time.Second
		}
		runLoop(executor, interval)
		return nil
	}

	results, err := executor.Tick(context.Background(), time.Now())
	if err != nil {
		return fail(err)
	}
	if results == nil {
		results = []domain.ExecutionResult{}
	}

	printJSON(map[string]any{
		"status":   "success",
		"executed": results,
		"count":    len(results),
		"message":  fmt.Sprintf("%d prompts executed", len(results)),
	})
	return nil
}

func agents(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	gw, err := newGateway(cfg)
	if err != nil {
		return fail(err)
	}

	agentList, err := gw.ListAgents(context.Background())
	if err != nil {
		return fail(err)
	}

	printJSON(map[string]any{
		"status": "success",
		"agents": agentList,
		"count":  len(agentList),
	})
	return nil
}

func testConnection(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	gw, err := newGateway(cfg)
	if err != nil {
		return fail(err)
	}

	agentList, err := gw.ListAgents(context.Background())
	if err != nil {
		return fail(fmt.Errorf("failed to connect to Letta server: %w", err))
	}

	printJSON(map[string]any{
		"status":      "success",
		"message":     "Connection to Letta server successful",
		"agent_count": len(agentList),
	})
	return nil
}
