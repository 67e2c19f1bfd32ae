// Command oxy-cubes opens a window with ten textured cubes and a fly camera.
//
// Controls: WASD to move, the mouse to look, Tab to release or capture the cursor,
// R to reload shaders, Escape to quit.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-cubes/engine"
	"github.com/Carmen-Shannon/oxy-cubes/engine/config"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	profile := flag.Bool("profile", false, "log frame and memory stats every interval")
	vsync := flag.Bool("vsync", true, "wait for vertical blank before presenting")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "profile":
			cfg.Profiler.Enabled = *profile
		case "vsync":
			cfg.Renderer.VSync = *vsync
		}
	})

	eng, err := engine.FromConfig(cfg)
	if err != nil {
		log.Fatalf("[Engine] %v", err)
	}

	runErr := eng.Run()
	if err := eng.Close(); err != nil {
		log.Printf("[Engine] close: %v", err)
	}
	if runErr != nil {
		log.Printf("[Engine] %v", runErr)
		os.Exit(1)
	}
}
