// Command playroom is a terminal client for the Playroom API. It creates or joins a
// room, watches it and reads lobby commands from stdin until the game is over.
package main

import (
	"Playroom/config"
	"Playroom/models"
	"Playroom/services/apiclient"
	"Playroom/services/fallback"
	"Playroom/services/local"
	"Playroom/services/lobby"
	"Playroom/services/poller"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const usage = `usage: playroom [flags] <command> [args]

commands:
  create <gameType>     create a room and watch it
  join <code>           join a room by code and watch it
  list [gameType]       list open public rooms
  groups                list your groups
  watch-group <code>    join a group and follow its roster

lobby commands (while watching a room):
  ready | unready | team <id> | start | finish | status | quit

group commands (while watching a group):
  status | leave | quit
`

var (
	errQuit     = errors.New("quit")
	errGameOver = errors.New("game over")
)

func main() {
	godotenv.Load()

	userID := flag.String("id", os.Getenv("PLAYROOM_USER_ID"), "player id, generated when empty")
	userName := flag.String("name", os.Getenv("PLAYROOM_USER_NAME"), "player name")
	private := flag.Bool("private", false, "create a private room")
	maxPlayers := flag.Int("max", 0, "maximum players for create")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	if flag.NArg() == 0 || strings.TrimSpace(*userName) == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}

	identity := apiclient.Identity{UserID: *userID, UserName: *userName}
	cache, err := local.Open(settings.CachePath, local.WithStaleAfter(settings.StaleAfter))
	if err != nil {
		logrus.Fatalf("[CACHE] %v", err)
	}
	defer cache.Close()
	store := fallback.New(apiclient.New(settings.APIBaseURL, identity, settings.RequestTimeout), cache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &client{
		svc:      lobby.NewService(store, nil),
		identity: identity,
		in:       os.Stdin,
		out:      os.Stdout,
		offline:  store.Offline,
	}
	args := flag.Args()
	needArg := func() {
		if len(args) < 2 {
			flag.Usage()
			os.Exit(2)
		}
	}
	switch args[0] {
	case "create":
		needArg()
		err = cli.create(ctx, models.RoomSpec{GameType: args[1], IsPrivate: *private, MaxPlayers: *maxPlayers})
	case "join":
		needArg()
		err = cli.join(ctx, args[1])
	case "list":
		filter := models.RoomFilter{}
		if len(args) > 1 {
			filter.GameType = args[1]
		}
		err = cli.list(ctx, filter)
	case "groups":
		err = cli.groups(ctx)
	case "watch-group":
		needArg()
		err = cli.watchGroup(ctx, args[1])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "playroom: %v\n", err)
		os.Exit(1)
	}
}

type client struct {
	svc      *lobby.Service
	identity apiclient.Identity
	in       io.Reader
	out      io.Writer
	offline  func() bool
}

func (c *client) create(ctx context.Context, spec models.RoomSpec) error {
	spec.HostID = c.identity.UserID
	spec.HostName = c.identity.UserName
	room, err := c.svc.CreateRoom(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s room %s (share this code)\n", room.GameType, room.Code)
	return c.watch(ctx, room)
}

func (c *client) join(ctx context.Context, code string) error {
	room, err := c.svc.Join(ctx, code, c.identity.UserID, c.identity.UserName)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "joined room %s hosted by %s\n", room.Code, room.HostName)
	return c.watch(ctx, room)
}

func (c *client) list(ctx context.Context, filter models.RoomFilter) error {
	rooms, err := c.svc.ListRooms(ctx, filter)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Fprintln(c.out, "no open rooms")
	}
	for _, r := range rooms {
		fmt.Fprintf(c.out, "%s  %-7s %d/%d  host %s\n", r.Code, r.GameType, len(r.Players), r.MaxPlayers, r.HostName)
	}
	return nil
}

func (c *client) groups(ctx context.Context) error {
	groups, err := c.svc.ListGroups(ctx, c.identity.UserID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Fprintf(c.out, "%s  %s  %d members\n", g.Code, g.Name, len(g.Members))
	}
	return nil
}

// readLines feeds the lines of c.in to the returned channel until EOF or ctx is done
func (c *client) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// watch polls room and runs lobby commands from c.in. Once the game starts the player
// stays in the room, heartbeats keep going until the game is finished or the user quits.
// Quitting before the start leaves the room.
func (c *client) watch(ctx context.Context, room *models.Room) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	started := make(chan struct{}, 1)
	session := poller.Watch(ctx, c.svc.Store(), room, c.identity.UserID, func(e poller.Event[models.Room]) {
		fmt.Fprintln(c.out, describe(e))
		if e.Kind == poller.StatusChanged && e.To == models.StatusPlaying {
			select {
			case started <- struct{}{}:
			default:
			}
		}
	})
	defer c.leaveIfWaiting(session, room.ID)
	c.printStatus(room)

	lines := c.readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-started:
			fmt.Fprintln(c.out, "game started, type finish when the game is over")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := c.command(ctx, session, room.ID, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if errors.Is(err, errGameOver) {
				fmt.Fprintln(c.out, "game finished")
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "error [%s]: %v\n", lobby.ErrorCode(err), err)
			}
		}
	}
}

// leaveIfWaiting stops polling and leaves the room unless its game already started.
// A started room belongs to the game until it is finished.
func (c *client) leaveIfWaiting(session *poller.Session, roomID string) {
	session.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	current, err := c.svc.GetRoom(ctx, roomID)
	if err == nil && current.Status != models.StatusWaiting {
		return
	}
	if err := c.svc.Leave(ctx, roomID, c.identity.UserID); err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Warn("[SESSION] leave on exit failed")
	}
}

// command runs one lobby command typed by the user
func (c *client) command(ctx context.Context, session *poller.Session, roomID, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	self := c.identity.UserID
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "ready", "unready":
		ready := cmd == "ready"
		commit := session.SetOptimisticReady(ready)
		_, err := c.svc.SetReady(ctx, roomID, self, ready)
		commit()
		return err
	case "team":
		if len(fields) < 2 {
			return fmt.Errorf("%w: team needs an id", lobby.ErrValidation)
		}
		_, err := c.svc.ChooseTeam(ctx, roomID, self, fields[1])
		return err
	case "start":
		_, err := c.svc.Start(ctx, roomID, self)
		return err
	case "finish":
		if _, err := c.svc.Finish(ctx, roomID, self); err != nil {
			return err
		}
		return errGameOver
	case "status":
		if snap, ok := session.Snapshot(); ok {
			c.printStatus(&snap)
		}
		return nil
	case "quit", "exit":
		return errQuit
	}
	return fmt.Errorf("%w: unknown command %q", lobby.ErrValidation, fields[0])
}

// watchGroup joins the group with code and reports roster changes until the user
// quits or leaves. Every poll goes through the store, so cached and remote rosters
// are reconciled on each tick.
func (c *client) watchGroup(ctx context.Context, code string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	self := c.identity.UserID
	g, err := c.svc.JoinGroup(ctx, code, self, c.identity.UserName)
	if err != nil {
		return err
	}
	p := poller.ForGroup(c.svc.Store(), g.ID, self, g, func(e poller.Event[models.Group]) {
		fmt.Fprintln(c.out, describe(e))
	})
	p.Start(ctx)
	defer p.Stop()
	c.printGroup(g)

	lines := c.readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "":
			case "status":
				if snap, ok := p.Snapshot(); ok {
					c.printGroup(&snap)
				}
			case "leave":
				p.Stop()
				if err := c.svc.LeaveGroup(ctx, g.ID, self); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "left group %s\n", g.Name)
				return nil
			case "quit", "exit":
				return nil
			default:
				fmt.Fprintf(c.out, "error [%s]: unknown command %q\n", lobby.ErrorCode(lobby.ErrValidation), line)
			}
		}
	}
}

func (c *client) printStatus(room *models.Room) {
	gate := lobby.EvaluateGate(room)
	fmt.Fprintf(c.out, "room %s  %s  %d/%d players  can start: %t  all ready: %t\n",
		room.Code, room.Status, len(room.Players), room.MaxPlayers, gate.CanStart, gate.AllReady)
	for _, p := range room.Players {
		marker := " "
		if p.IsReady {
			marker = "*"
		}
		host := ""
		if p.IsHost {
			host = " (host)"
		}
		fmt.Fprintf(c.out, "  [%s] %s%s\n", marker, p.Name, host)
	}
	c.printOffline()
}

func (c *client) printGroup(g *models.Group) {
	fmt.Fprintf(c.out, "group %s  %s  admin %s  %d members\n", g.Code, g.Name, g.AdminName, len(g.Members))
	for _, m := range g.Members {
		fmt.Fprintf(c.out, "  %s\n", m.Name)
	}
	c.printOffline()
}

func (c *client) printOffline() {
	if c.offline != nil && c.offline() {
		fmt.Fprintln(c.out, "  offline: showing cached state")
	}
}

func describe[T poller.Snapshot](e poller.Event[T]) string {
	switch e.Kind {
	case poller.MemberJoined:
		return fmt.Sprintf("%s joined", e.Participant.Name)
	case poller.MemberLeft:
		return fmt.Sprintf("%s left", e.Participant.Name)
	case poller.StatusChanged:
		return fmt.Sprintf("room is now %s (was %s)", e.To, e.From)
	case poller.ReadyReverted:
		return fmt.Sprintf("ready toggle not confirmed, you are ready: %t", e.Ready)
	}
	return string(e.Kind)
}
