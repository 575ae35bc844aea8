package fx

import (
	"github.com/satyapal28/archive-server/internal/repositories/activity"
	"github.com/satyapal28/archive-server/internal/repositories/adminrole"
	"github.com/satyapal28/archive-server/internal/repositories/comment"
	"github.com/satyapal28/archive-server/internal/repositories/like"
	"github.com/satyapal28/archive-server/internal/repositories/post"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
	like.Module,
	comment.Module,
	adminrole.Module,
	activity.Module,
)
