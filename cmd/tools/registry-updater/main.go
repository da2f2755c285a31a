// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	crt "onboarding-workers/internal/workers/registration/create-registration-ticket"
	"onboarding-workers/pkg/registry"
)

// activities are the descriptors published by the workers in this repository.
func activities() ([]registry.Activity, error) {
	registration, err := crt.Activity()
	if err != nil {
		return nil, err
	}
	return []registry.Activity{registration}, nil
}

func main() {
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	syncPath := syncCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		_ = syncCmd.Parse(os.Args[2:])
		changed, err := syncRegistry(*syncPath)
		if err != nil {
			fmt.Printf("Error syncing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry synced, %d activities changed.\n", changed)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(*validatePath); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	default:
		help()
	}
}

func syncRegistry(path string) (int, error) {
	reg, err := registry.LoadOrNew(path)
	if err != nil {
		return 0, err
	}
	defined, err := activities()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, a := range defined {
		if reg.Upsert(a) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, reg.Save(path, time.Now())
}

// validateRegistry checks the file and that every worker in this repository is listed.
func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	defined, err := activities()
	if err != nil {
		return err
	}
	for _, a := range defined {
		if _, ok := reg.Find(a.TaskType); !ok {
			return fmt.Errorf("task type %s is not registered, run registry-updater sync", a.TaskType)
		}
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  sync      Write the activities defined by the workers into the registry file
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater sync -path configs/activity-registry.json
  registry-updater validate -path configs/activity-registry.json`)
}
