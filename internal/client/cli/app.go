package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

// authClient is the part of client.GRPCClient the commands use.
type authClient interface {
	Register(ctx context.Context, email, password string) (api.User, error)
	Login(ctx context.Context, email, password string) (api.User, error)
	Activate(ctx context.Context, link string) (string, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) (bool, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	Ping(ctx context.Context) error
	User() (api.User, bool)
	Close() error
}

type App struct {
	config *config.Config
	client authClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.client.User()
	return ok
}

func (a *App) getStatus() string {
	u, ok := a.client.User()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Email)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
	}()

	printlnFn("Welcome to gophauth CLI (type 'help' for commands)")
	if err := a.Ping(ctx); err != nil {
		log.Printf("server %s is not reachable yet: %v", a.config.ServerEndpointAddr, err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
