package main

import (
	"embed"
	"fmt"
	"log"
	"os"

	"launchdock/internal/app"
	"launchdock/internal/config"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/platform"

	flag "github.com/spf13/pflag"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed build/appicon.png
var appicon []byte

const appVersion = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to launchdock.yaml")
	environment := flag.String("env", "", "environment override (development, test, production)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("launchdock %s\n", appVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *environment != "" {
		cfg.Environment = *environment
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Linux resolves the window icon from candidate directories at startup;
	// the embedded icon is the fallback. Windows and macOS take theirs from
	// the packaged binary.
	windowIcon := platform.ResolveIcon(platform.IconCandidatePaths(), appicon)

	err = wails.Run(&options.App{
		Title:            "launchdock",
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		MinWidth:         360,
		MinHeight:        420,
		DisableResize:    false,
		AlwaysOnTop:      cfg.Window.AlwaysOnTop,
		BackgroundColour: &options.RGBA{R: 24, G: 24, B: 27, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             nil,
		Logger:           logging.NewWailsLoggerAdapter(application.Logger()),
		LogLevel:         logger.INFO,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               cfg.SingleInstanceID,
			OnSecondInstanceLaunch: application.OnSecondInstanceLaunch,
		},
		Bind: []interface{}{
			application,
		},
		// Windows platform specific options
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			WebviewUserDataPath:  "",
			ZoomFactor:           1.0,
		},
		// Mac platform specific options
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  false,
				HideTitleBar:               false,
				FullSizeContent:            false,
				UseToolbar:                 false,
				HideToolbarSeparator:       true,
			},
			Appearance:           mac.NSAppearanceNameDarkAqua,
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   "launchdock",
				Message: "A small launcher shell",
				Icon:    appicon,
			},
		},
		// Linux platform specific options
		Linux: &linux.Options{
			Icon:        windowIcon,
			ProgramName: "launchdock",
		},
	})

	if err != nil {
		log.Fatal(err)
	}
}
