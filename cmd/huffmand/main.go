// Command huffmand is the codec's optional HTTP front end, wired onto
// internal/codec's bit/text-mode artifact instead of a fixed-format
// frequency table.
package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echoware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/kelbwah/huffmin/internal/httpapi"
)

func loadConfig() (addr string) {
	v := viper.New()
	v.SetEnvPrefix("HUFFMAND")
	v.AutomaticEnv()
	v.SetDefault("addr", ":6969")
	return v.GetString("addr")
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	e := echo.New()
	e.Use(echoware.Logger())
	e.Use(echoware.Recover())
	e.Use(echoware.CORSWithConfig(echoware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(httpapi.RateLimit(5, 10))

	e.POST("/compress", httpapi.CompressFile)
	e.POST("/decompress", httpapi.DecompressFile)

	addr := loadConfig()
	log.Info().Str("addr", addr).Msg("starting huffmand")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
