// Snowglobe 手势控制的圣诞场景
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>        User config YAML (overrides embedded defaults)
//	--verbose              Enable verbose logging
//	--hands-addr <addr>    Hand-tracking websocket address (empty disables)
//	--metrics-addr <addr>  Prometheus /metrics address (empty disables)
//	--keyboard             Enable the keyboard gesture simulator
//
// Controls:
//
//	F / V / ←→↑ / N   Simulated fist, victory, open hand, no hand
//	M / S / H          Toggle music, sound effects, hand overlay
//	F11                Toggle fullscreen
//	Click / tap        Launch a firework
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gonewx/snowglobe/pkg/app"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag      = flag.String("config", "", "User config YAML file")
	verboseFlag     = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	handsAddrFlag   = flag.String("hands-addr", "127.0.0.1:8765", "Hand-tracking websocket listen address, empty disables")
	metricsAddrFlag = flag.String("metrics-addr", "", "Prometheus metrics listen address, empty disables")
	keyboardFlag    = flag.Bool("keyboard", true, "Enable the keyboard gesture simulator")
)

func main() {
	flag.Parse()

	cfg := app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
	}
	// 只有显式传入的参数才覆盖配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hands-addr":
			cfg.HandsAddr = handsAddrFlag
		case "metrics-addr":
			cfg.MetricsAddr = metricsAddrFlag
		case "keyboard":
			cfg.Keyboard = keyboardFlag
		}
	})

	snowglobe, err := app.NewApp(cfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}
	defer snowglobe.Close()

	window := snowglobe.WindowConfig()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(snowglobe); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("运行失败: %v", err)
	}
}
