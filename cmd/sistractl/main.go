package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/mbcx07/SISTRA/internal/config"
	"github.com/mbcx07/SISTRA/internal/infra"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/validation"
	"github.com/mbcx07/SISTRA/internal/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sistractl",
		Short: "SISTRA - herramientas de operación",
		Long: `Herramientas administrativas del backend SISTRA:
cuentas iniciales, hashes de contraseña, migraciones y colas muertas.`,
	}

	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(genhashCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(dlqCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func seedAdminCmd() *cobra.Command {
	var matricula, nombre, unidad string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crear la cuenta ADMIN_SISTEMA inicial",
		Long: `Crea (o reactiva) la cuenta de administrador del sistema.
La contraseña se pide por stdin y debe cumplir la política de fortaleza.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}

			password, err := leerPassword("Contraseña para " + matricula + ": ")
			if err != nil {
				return err
			}
			if motivos := validation.ValidaFortalezaPassword(password); len(motivos) > 0 {
				for _, m := range motivos {
					fmt.Printf("  %s %s\n", color.New(color.FgRed).Sprint("✗"), m)
				}
				return fmt.Errorf("la contraseña no cumple la política")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
			if err != nil {
				return err
			}

			repo := repository.NewUsuarioRepository(db)
			ctx := context.Background()
			if existente, err := repo.FindByMatricula(ctx, matricula); err == nil {
				existente.PasswordHash = string(hash)
				if err := repo.Update(ctx, existente); err != nil {
					return err
				}
				fmt.Printf("%s cuenta %s ya existía; contraseña actualizada\n",
					color.New(color.FgYellow).Sprint("!"), existente.Matricula)
				return nil
			}

			u := &model.Usuario{
				ID:           uuid.New(),
				Matricula:    matricula,
				Nombre:       nombre,
				PasswordHash: string(hash),
				Role:         rbac.AdminSistema,
				Unidad:       unidad,
				OOAD:         cfg.OOAD,
				Activo:       true,
			}
			if err := repo.Create(ctx, u); err != nil {
				return err
			}
			fmt.Printf("%s cuenta %s creada con rol %s\n",
				color.New(color.FgGreen).Sprint("✓"), u.Matricula, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&matricula, "matricula", "ADMIN", "matrícula de la cuenta")
	cmd.Flags().StringVar(&nombre, "nombre", "Administrador del Sistema", "nombre completo")
	cmd.Flags().StringVar(&unidad, "unidad", "NIVEL CENTRAL", "unidad de adscripción")
	return cmd
}

func genhashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genhash",
		Short: "Generar un hash bcrypt para sembrar usuarios por SQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := leerPassword("Contraseña: ")
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Ejecutar las migraciones de esquema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// NewDatabase ya corre las migraciones al conectar.
			if _, err := infra.NewDatabase(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("%s esquema al día\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}
}

func dlqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspeccionar y reencolar las colas muertas",
	}
	cmd.AddCommand(dlqListCmd())
	cmd.AddCommand(dlqRequeueCmd())
	return cmd
}

var dlqQueues = []string{worker.QueueBitacora, worker.QueueEmail}

func dlqListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Mostrar el tamaño y las últimas entradas de cada cola muerta",
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := conectarRedis()
			if err != nil {
				return err
			}
			ctx := context.Background()
			for _, q := range dlqQueues {
				n, err := worker.DLQLength(ctx, rdb, q)
				if err != nil {
					return err
				}
				marca := color.New(color.FgGreen).Sprint("✓")
				if n > 0 {
					marca = color.New(color.FgRed).Sprint("✗")
				}
				fmt.Printf("%s %s%s: %d entradas\n", marca, worker.DLQPrefix, q, n)

				entradas, err := rdb.LRange(ctx, worker.DLQPrefix+q, 0, 4).Result()
				if err != nil {
					return err
				}
				for _, raw := range entradas {
					var e worker.DLQEntry
					if err := json.Unmarshal([]byte(raw), &e); err != nil {
						fmt.Printf("    (entrada ilegible) %.80s\n", raw)
						continue
					}
					fmt.Printf("    %s  intentos=%d  %s\n", e.FailedAt, e.Attempts, e.Reason)
				}
			}
			return nil
		},
	}
}

func dlqRequeueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <cola>",
		Short: "Regresar todas las entradas de una cola muerta a su cola de trabajo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queue := args[0]
			valida := false
			for _, q := range dlqQueues {
				if q == queue {
					valida = true
				}
			}
			if !valida {
				return fmt.Errorf("cola desconocida %q (válidas: %v)", queue, dlqQueues)
			}

			rdb, err := conectarRedis()
			if err != nil {
				return err
			}
			ctx := context.Background()
			moved := 0
			for {
				raw, err := rdb.RPop(ctx, worker.DLQPrefix+queue).Result()
				if err != nil {
					break // cola vacía
				}
				var e worker.DLQEntry
				if err := json.Unmarshal([]byte(raw), &e); err != nil {
					fmt.Fprintf(os.Stderr, "entrada ilegible descartada: %.80s\n", raw)
					continue
				}
				// El pool espera el sobre Job, no el payload a secas.
				job, err := json.Marshal(worker.Job{Type: e.JobType, Payload: e.Payload})
				if err != nil {
					return err
				}
				if err := rdb.LPush(ctx, queue, job).Err(); err != nil {
					return err
				}
				moved++
			}
			fmt.Printf("%s %d trabajos reencolados en %s\n",
				color.New(color.FgGreen).Sprint("✓"), moved, queue)
			return nil
		},
	}
}

func conectarRedis() (*redis.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func leerPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
