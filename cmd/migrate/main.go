// migrate aplica las migraciones de db/migrations (comprobantes y secuenciales).
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/sri-facturacion/pkg/config"
	"github.com/jhoicas/sri-facturacion/pkg/logger"
)

const usage = "Uso: migrate [up|down|steps N|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("crear instancia de migrate")
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración up")
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración down")
		}
		log.Info().Msg("migraciones revertidas")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requiere un número")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("argumento de steps inválido")
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración steps")
		}
		log.Info().Int("steps", n).Msg("pasos de migración aplicados")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("obtener versión")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("comando desconocido: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}
