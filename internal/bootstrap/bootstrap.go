package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "preview/internal/modules/auth/adapter/in"
	authoutadapter "preview/internal/modules/auth/adapter/out"
	authservice "preview/internal/modules/auth/service"
	authusecase "preview/internal/modules/auth/usecase"
	interviewinadapter "preview/internal/modules/interview/adapter/in"
	interviewoutadapter "preview/internal/modules/interview/adapter/out"
	interviewservice "preview/internal/modules/interview/service"
	interviewusecase "preview/internal/modules/interview/usecase"
	resultinadapter "preview/internal/modules/result/adapter/in"
	resultoutadapter "preview/internal/modules/result/adapter/out"
	resultservice "preview/internal/modules/result/service"
	resultusecase "preview/internal/modules/result/usecase"
	"preview/internal/platform/clock"
	"preview/internal/platform/config"
	"preview/internal/platform/httpx"
	"preview/internal/platform/id"
	uiapp "preview/internal/ui/app"
)

type App struct {
	AuthCLI      authinadapter.CLIHandler
	InterviewCLI interviewinadapter.CLIHandler
	ResultCLI    resultinadapter.CLIHandler

	// ForcedLogout receives a signal whenever token renewal fails and
	// the stored credentials were cleared.
	ForcedLogout chan struct{}
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	credStore := authoutadapter.NewFileCredentialStore(cfg.CredentialsPath)
	client := httpx.New(cfg.BaseURL, cfg.Timeout, credStore, ids)

	forcedLogout := make(chan struct{}, 1)
	client.OnForcedLogout(func() {
		select {
		case forcedLogout <- struct{}{}:
		default:
		}
	})

	authUC := authusecase.NewInteractor(
		authservice.NewAuthService(credStore),
		authoutadapter.NewAPIClient(client),
	)

	transcripts, err := interviewoutadapter.NewSQLiteTranscriptStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new transcript store: %w", err)
	}
	interviewAPI := interviewoutadapter.NewAPIClient(client)
	interviewUC := interviewusecase.NewInteractor(
		interviewAPI,
		transcripts,
		interviewservice.NewSessionService(clk, interviewAPI, transcripts),
	)

	reports, err := resultoutadapter.NewSQLiteReportStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new report store: %w", err)
	}
	resultUC := resultusecase.NewInteractor(resultservice.NewResultService(
		clk,
		resultoutadapter.NewAPIClient(client),
		reports,
	))

	return &App{
		AuthCLI:      authinadapter.NewCLIHandler(authUC),
		InterviewCLI: interviewinadapter.NewCLIHandler(interviewUC),
		ResultCLI:    resultinadapter.NewCLIHandler(resultUC),
		ForcedLogout: forcedLogout,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.AuthCLI, app.InterviewCLI, app.ResultCLI, app.ForcedLogout)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
