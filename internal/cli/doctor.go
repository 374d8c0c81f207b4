package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"cadence/internal/backup"
	"cadence/internal/dates"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: store reachable and hydration succeeds
	if err := ctx.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK (%s)\n", ctx.Store.ConfigPath())
	}

	// Check 2: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK (today is %s)\n", dates.Today(dates.System()))
	}

	// Check 3: backups present (warning only)
	mgr := backup.NewManager(ctx.Store.ConfigPath())
	if infos, err := mgr.ListBackups(); err != nil || len(infos) == 0 {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   No backups found, consider running 'cadence backup'\n")
	} else {
		fmt.Printf("✓ Backups present: OK (%d)\n", len(infos))
	}

	// Check 4: no other cadence process against the same store (warning only)
	if n, err := countOtherInstances(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   Could not enumerate processes: %v\n", err)
	} else if n > 0 {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   %d other cadence process(es) running; concurrent writes to the same store may be lost\n", n)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed")
	return nil
}

func checkClock() error {
	today := dates.Today(dates.System())
	t, err := dates.ParseDayKey(today)
	if err != nil {
		return fmt.Errorf("today's date key %q does not parse: %w", today, err)
	}
	if t.Year() < 2000 {
		return fmt.Errorf("system clock appears unset (year %d)", t.Year())
	}
	return nil
}

func countOtherInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}

	self := os.Getpid()
	name := filepath.Base(os.Args[0])
	count := 0
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == strings.TrimSuffix(name, ".exe") {
			count++
		}
	}
	return count, nil
}
