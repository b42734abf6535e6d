package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/ojclient/conf"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/logger"
	"github.com/programme-lv/ojclient/problems"
	"github.com/programme-lv/ojclient/session"
	"github.com/programme-lv/ojclient/submctl"
	"github.com/programme-lv/ojclient/tokenstore"
)

const defaultLogFile = "ojtui.log"

func main() {
	apiURL := flag.String("api-url", "", "judge API base URL (overrides OJ_API_URL)")
	flag.Parse()

	cfg, err := conf.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.ApiURL = *apiURL
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	// the terminal belongs to the UI, logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log, err := logger.New(cfg.LogLevel, logFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ctx := logger.WithLogger(context.Background(), log)

	routes := make(chan session.Route, 8)
	client := judgeapi.NewClient(cfg.ApiURL, judgeapi.WithLogger(log), judgeapi.WithTimeout(cfg.RequestTimeout))
	sess := session.New(client, tokenstore.NewFileStore(cfg.TokenFile),
		session.WithNavigator(channelNavigator(routes)),
		session.WithLogoutTimeout(cfg.LogoutTimeout),
		session.WithLogger(log),
	)

	d := deps{
		ctx:      ctx,
		session:  sess,
		problems: problems.New(client, sess).WithLogger(log),
		submit:   submctl.New(client, sess, submctl.WithLogger(log)),
		routes:   routes,
	}

	p := tea.NewProgram(initialModel(d), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", "error", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// channelNavigator hands intents to the UI loop without blocking the
// session. An intent that does not fit in the buffer is dropped.
func channelNavigator(ch chan session.Route) session.Navigator {
	return session.NavigatorFunc(func(route session.Route) {
		select {
		case ch <- route:
		default:
		}
	})
}
