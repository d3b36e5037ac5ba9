package console

import (
	"context"
	"fmt"
	"time"

	gorcon "github.com/gorcon/rcon"
	"github.com/leighmacdonald/rcon/rcon"
	"github.com/leighmacdonald/rconwrap/internal/domain"
)

const (
	DriverMinecraft = "minecraft"
	DriverSource    = "source"
)

// Session is a single authenticated rcon connection.
type Session interface {
	Exec(command string) (string, error)
	Close() error
}

// Driver opens sessions using one of the supported rcon client implementations.
type Driver interface {
	Dial(ctx context.Context, addr string, password string, timeout time.Duration) (Session, error)
}

func NewDriver(name string) (Driver, error) { //nolint:ireturn
	switch name {
	case DriverMinecraft, "":
		return MinecraftDriver{}, nil
	case DriverSource:
		return SourceDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDriver, name)
	}
}

// SourceDriver speaks the Source engine flavour of the protocol.
type SourceDriver struct{}

func (SourceDriver) Dial(ctx context.Context, addr string, password string, timeout time.Duration) (Session, error) { //nolint:ireturn
	conn, errConn := rcon.Dial(ctx, addr, password, timeout)
	if errConn != nil {
		return nil, errConn
	}

	return conn, nil
}

// MinecraftDriver handles the Minecraft server quirks such as fragmented responses.
type MinecraftDriver struct{}

func (MinecraftDriver) Dial(ctx context.Context, addr string, password string, timeout time.Duration) (Session, error) { //nolint:ireturn
	if errCtx := ctx.Err(); errCtx != nil {
		return nil, errCtx
	}

	// No io deadline, stalled reads are detected and abandoned by the query executor.
	conn, errConn := gorcon.Dial(addr, password, gorcon.SetDialTimeout(timeout), gorcon.SetDeadline(0))
	if errConn != nil {
		return nil, errConn
	}

	return minecraftSession{conn: conn}, nil
}

type minecraftSession struct {
	conn *gorcon.Conn
}

func (s minecraftSession) Exec(command string) (string, error) {
	return s.conn.Execute(command)
}

func (s minecraftSession) Close() error {
	return s.conn.Close()
}
