package cli

import (
	"fmt"

	"cadence/internal/backup"
)

type BackupCmd struct {
	List    bool   `short:"l" help:"List existing backups."`
	Restore string `short:"r" help:"Restore the store from the given backup file."`
}

func (c *BackupCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.ConfigPath())

	if c.List {
		infos, err := mgr.ListBackups()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No backups found")
			return nil
		}
		fmt.Println("Backups (newest first):")
		for _, info := range infos {
			fmt.Printf("  %s  %s  %d bytes\n", info.Timestamp.Format("2006-01-02 15:04:05"), info.Path, info.Size)
		}
		return nil
	}

	if c.Restore != "" {
		if err := mgr.RestoreBackup(c.Restore); err != nil {
			return err
		}
		fmt.Printf("Restored store from %s\n", c.Restore)
		return nil
	}

	written, err := mgr.CreateBackup()
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Printf("Created backup: %s\n", path)
	}
	return nil
}
