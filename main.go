package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"NewtonsFractal/explorer"
	"NewtonsFractal/misc"
	"NewtonsFractal/rpc"
	"NewtonsFractal/surface"
	"NewtonsFractal/web"

	"golang.org/x/term"
)

func main() {
	parseArguments()
	logger := misc.NewLogger("NewtonsFractal", verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case snapshotFile != "":
		misc.CheckError(snapshot(ctx), logger, misc.Fatal)
	case serve:
		misc.CheckError(serveExplorer(ctx), logger, misc.Fatal)
	case remoteAddress != "":
		misc.CheckError(remote(), logger, misc.Fatal)
	}
}

func snapshot(ctx context.Context) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	session, err := explorer.NewExplorer(settings)
	if err != nil {
		return err
	}
	if err = session.Execute(ctx, explorer.Command{Kind: explorer.Draw}); err != nil {
		return err
	}
	if session.State().Last.Canceled {
		return errors.New("snapshot interrupted before the render finished")
	}

	if snapshotFile == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write an image to a terminal, redirect stdout")
		}
		return surface.Encode(os.Stdout, "", session.Image(), scale)
	}
	path := snapshotFile
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(settings.SavePath, settings.RunName, path)
	}
	return surface.Save(path, session.Image(), scale)
}

func serveExplorer(ctx context.Context) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	session, err := explorer.NewExplorer(settings)
	if err != nil {
		return err
	}

	webServer := web.NewServer(settings.WebAddress, settings.FrameInterval(), session.Viewport(), session, misc.NewLogger("WebServer", verbose))
	session.SetInput(webServer)
	session.OnFrame(webServer.Publish)
	if err = webServer.Run(); err != nil {
		return err
	}

	rpcServer := rpc.NewTcpServer(rpc.NewExplorer(ctx, session, misc.NewLogger("RpcService", verbose)), settings.RpcAddress, misc.NewLogger("RpcServer", verbose))
	if err = rpcServer.Run(); err != nil {
		return err
	}

	go func() {
		if _, err := session.Submit(ctx, explorer.Command{Kind: explorer.Draw}); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Initial draw failed: %s\n", err)
		}
	}()

	err = session.Run(ctx)

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rpcServer.Stop()
	misc.CheckError(webServer.Stop(shutdown), misc.NewLogger("WebServer", verbose), misc.Warning)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func remote() error {
	client := rpc.NewClient(remoteAddress, misc.NewLogger("RpcClient", verbose))
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Disconnect()

	var state explorer.State
	var err error
	switch command {
	case "":
		state, err = client.State()
	case "cancel":
		if err = client.Cancel(); err == nil {
			state, err = client.State()
		}
	default:
		state, err = client.Command(command)
	}
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}
