package api

import (
	"hackshare/internal/auth"
	"hackshare/internal/events"
	"hackshare/internal/hack"
	"hackshare/internal/loader"
	"hackshare/internal/user"
	"hackshare/internal/vote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services bundles the stores and engines the handlers work against.
type Services struct {
	DB       *gorm.DB
	Users    *user.Store
	Hacks    *hack.Service
	Votes    *vote.Engine
	VoteRows *vote.Store
	Sessions auth.SessionStore
	Hub      *events.Hub
}

// NewServices wires the stores on gdb. hub may be nil, in which case
// moderation events are discarded.
func NewServices(gdb *gorm.DB, sessions auth.SessionStore, hub *events.Hub) *Services {
	users := user.NewStore(gdb)
	hacks := hack.NewService(hack.NewStore(gdb), users)
	if hub != nil {
		hacks.SetNotifier(hub)
	}
	return &Services{
		DB:       gdb,
		Users:    users,
		Hacks:    hacks,
		Votes:    vote.NewEngine(gdb),
		VoteRows: vote.NewStore(gdb),
		Sessions: sessions,
		Hub:      hub,
	}
}

const ctxLoaders = "loaders"

// loadersFor returns the request's loaders, creating them on first use.
func loadersFor(c *gin.Context, svc *Services) *loader.Loaders {
	if v, ok := c.Get(ctxLoaders); ok {
		if l, ok := v.(*loader.Loaders); ok {
			return l
		}
	}
	viewer, _ := auth.CallerID(c)
	l := loader.NewLoaders(svc.Users, svc.VoteRows, viewer)
	c.Set(ctxLoaders, l)
	return l
}
