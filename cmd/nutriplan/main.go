package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"nutriplan/internal/config"
	"nutriplan/internal/database"
	"nutriplan/internal/llm"
	"nutriplan/internal/logger"
	"nutriplan/internal/metrics"
	"nutriplan/internal/notify"
	"nutriplan/internal/planner"
	"nutriplan/internal/shopping"

	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	textGen, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		zlog.Fatal("failed to initialize model oracle", "error", err)
	}
	defer closeOracle()

	metricsStore := metrics.NewStore(db.SQL)
	orchestrator := planner.NewOrchestrator(textGen, metricsStore, zlog, cfg.OracleTimeout)
	repo := planner.NewRepository(db.SQL, zlog)
	scheduler := notify.NewLogScheduler(zlog)
	lifecycle := planner.NewLifecycle(repo, scheduler, zlog)
	shoppingRepo := shopping.NewRepository(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		cmd := flag.NewFlagSet("generate", flag.ExitOnError)
		subjectID := cmd.String("subject", "", "Subject id the plan is for")
		name := cmd.String("name", "", "Subject display name")
		days := cmd.Int("days", 7, "Plan duration in days (1-90)")
		age := cmd.Int("age", 0, "Subject age in years")
		allergies := cmd.String("allergies", "", "Comma-separated allergy list")
		dislikes := cmd.String("dislikes", "", "Comma-separated dislike list")
		favorites := cmd.String("favorites", "", "Comma-separated favorite list")
		restrictions := cmd.String("restrictions", "", "Comma-separated dietary restrictions")
		cmd.Parse(os.Args[2:])

		if *subjectID == "" {
			zlog.Fatal("generate requires -subject")
		}

		prefs := planner.Preferences{
			Age:          *age,
			Allergies:    splitCSV(*allergies),
			Dislikes:     splitCSV(*dislikes),
			Favorites:    splitCSV(*favorites),
			Restrictions: splitCSV(*restrictions),
		}

		plan, err := orchestrator.Generate(ctx, *subjectID, *name, prefs, *days)
		if err != nil {
			zlog.Fatal("generation failed", "error", err)
		}
		if err := lifecycle.Create(ctx, plan); err != nil {
			zlog.Fatal("failed to persist plan", "error", err)
		}
		fmt.Printf("Created plan %s (%q, %d days, source=%s)\n", plan.ID, plan.Title, plan.Duration(), plan.Source)

	case "regenerate-meal":
		cmd := flag.NewFlagSet("regenerate-meal", flag.ExitOnError)
		planID := cmd.String("plan", "", "Plan id")
		day := cmd.Int("day", 0, "1-based day index")
		slot := cmd.String("slot", "", "Meal slot (breakfast/lunch/dinner/snack)")
		cmd.Parse(os.Args[2:])

		if *planID == "" || *day == 0 || *slot == "" {
			zlog.Fatal("regenerate-meal requires -plan, -day and -slot")
		}

		plan, err := repo.GetByID(ctx, *planID)
		if err != nil {
			zlog.Fatal("failed to load plan", "error", err)
		}
		meal, err := orchestrator.RegenerateMeal(ctx, plan, *day, planner.Slot(*slot), plan.Preferences, plan.SubjectName)
		if err != nil {
			zlog.Fatal("meal regeneration failed", "error", err)
		}
		if err := lifecycle.ReplaceMeal(ctx, plan, *day, planner.Slot(*slot), meal); err != nil {
			zlog.Fatal("failed to persist meal replacement", "error", err)
		}
		fmt.Printf("Replaced day %d %s with %q (%d kcal)\n", *day, *slot, meal.Name, meal.Calories)

	case "activate":
		cmd := flag.NewFlagSet("activate", flag.ExitOnError)
		subjectID := cmd.String("subject", "", "Subject id")
		planID := cmd.String("plan", "", "Plan id")
		cmd.Parse(os.Args[2:])

		if *subjectID == "" || *planID == "" {
			zlog.Fatal("activate requires -subject and -plan")
		}
		plan, err := lifecycle.Activate(ctx, *subjectID, *planID)
		if err != nil {
			zlog.Fatal("activation failed", "error", err)
		}
		fmt.Printf("Activated plan %s (%q)\n", plan.ID, plan.Title)

	case "deactivate":
		cmd := flag.NewFlagSet("deactivate", flag.ExitOnError)
		planID := cmd.String("plan", "", "Plan id")
		cmd.Parse(os.Args[2:])

		if *planID == "" {
			zlog.Fatal("deactivate requires -plan")
		}
		if _, err := lifecycle.Deactivate(ctx, *planID); err != nil {
			zlog.Fatal("deactivation failed", "error", err)
		}
		fmt.Printf("Deactivated plan %s\n", *planID)

	case "delete":
		cmd := flag.NewFlagSet("delete", flag.ExitOnError)
		planID := cmd.String("plan", "", "Plan id")
		cmd.Parse(os.Args[2:])

		if *planID == "" {
			zlog.Fatal("delete requires -plan")
		}
		if err := lifecycle.Delete(ctx, *planID); err != nil {
			zlog.Fatal("deletion failed", "error", err)
		}
		if err := shoppingRepo.DeleteByPlanID(ctx, *planID); err != nil {
			zlog.Warn("failed to delete shopping list", "plan_id", *planID, "error", err)
		}
		fmt.Printf("Deleted plan %s\n", *planID)

	case "list":
		cmd := flag.NewFlagSet("list", flag.ExitOnError)
		subjectID := cmd.String("subject", "", "Subject id")
		cmd.Parse(os.Args[2:])

		if *subjectID == "" {
			zlog.Fatal("list requires -subject")
		}
		plans, err := repo.ListBySubject(ctx, *subjectID)
		if err != nil {
			zlog.Fatal("failed to list plans", "error", err)
		}
		for _, p := range plans {
			marker := " "
			if p.IsActive {
				marker = "*"
			}
			fmt.Printf("%s %s  %-30q  %d days  %s\n", marker, p.ID, p.Title, p.Duration(), p.CreatedAt.Format("2006-01-02"))
		}

	case "shopping-list":
		cmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		planID := cmd.String("plan", "", "Plan id")
		from := cmd.Int("from", 1, "First day to include (1-based)")
		to := cmd.Int("to", 0, "Last day to include (defaults to the plan's last day)")
		cmd.Parse(os.Args[2:])

		if *planID == "" {
			zlog.Fatal("shopping-list requires -plan")
		}
		plan, err := repo.GetByID(ctx, *planID)
		if err != nil {
			zlog.Fatal("failed to load plan", "error", err)
		}
		if *to == 0 {
			*to = plan.Duration()
		}
		list, err := shopping.BuildFromPlan(plan, *from, *to)
		if err != nil {
			zlog.Fatal("failed to build shopping list", "error", err)
		}
		if err := shoppingRepo.Save(ctx, list); err != nil {
			zlog.Fatal("failed to save shopping list", "error", err)
		}
		fmt.Printf("Shopping list for %q, days %d-%d (%d items):\n", plan.Title, list.FromDay, list.ToDay, len(list.Items))
		for _, item := range list.Items {
			fmt.Printf("  - %s\n", item)
		}

	case "usage":
		cmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := cmd.Int("days", 7, "Report usage for the last N days")
		cmd.Parse(os.Args[2:])

		rows, err := metricsStore.GetDailyUsage(*days)
		if err != nil {
			zlog.Fatal("failed to read usage", "error", err)
		}
		for _, u := range rows {
			fmt.Printf("%s  calls=%d fallback=%d prompt_tokens=%d completion_tokens=%d\n",
				u.Date, u.TotalCalls, u.FallbackCalls, u.TotalPrompt, u.TotalCompletion)
		}

	case "metrics-cleanup":
		cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cmd.Int("days", 30, "Keep records for the last N days")
		cmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			zlog.Fatal("cleanup failed", "error", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newOracle builds the configured text generator and a close func.
func newOracle(ctx context.Context, cfg *config.Config) (llm.TextGenerator, func(), error) {
	switch cfg.OracleProvider {
	case config.ProviderGroq:
		return llm.NewGroqClient(cfg), func() {}, nil
	default:
		gen, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {}
		if closer, ok := gen.(llm.Closer); ok {
			closeFn = func() { _ = closer.Close() }
		}
		return gen, closeFn, nil
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printUsage() {
	fmt.Println("Usage: nutriplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate and activate a new meal plan for a subject")
	fmt.Println("  regenerate-meal    Replace a single meal slot of an existing plan")
	fmt.Println("  activate           Make a plan the subject's single active plan")
	fmt.Println("  deactivate         Mark a plan inactive")
	fmt.Println("  delete             Delete a plan")
	fmt.Println("  list               List a subject's plans (active marked with *)")
	fmt.Println("  shopping-list      Build and store a consolidated shopping list for a plan")
	fmt.Println("  usage              Show daily oracle usage totals")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
