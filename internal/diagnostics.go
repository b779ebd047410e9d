package internal

import (
	"os"
	"os/user"
	"regexp"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/sirupsen/logrus"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion(logger logrus.FieldLogger) {
	logger.WithField("version", versioninfo.Short()).Info("glitch-lab")
}

// MaskEnviron returns the environment sorted by key, with the values of
// anything that looks like a credential replaced.
func MaskEnviron(environ []string) [][2]string {
	vars := make([][2]string, 0, len(environ))
	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		vars = append(vars, [2]string{key, value})
	}
	sort.Slice(vars, func(i, j int) bool {
		return vars[i][0] < vars[j][0]
	})
	return vars
}

func EnvironmentVars(logger logrus.FieldLogger) {
	for _, kv := range MaskEnviron(os.Environ()) {
		logger.WithField("env", kv[0]).Debug(kv[1])
	}
}

func UserInfo(logger logrus.FieldLogger) {
	fields := logrus.Fields{"pid": os.Getpid()}
	if u, err := user.Current(); err != nil {
		logger.WithError(err).Warn("failed to look up current user")
	} else {
		fields["uid"] = u.Uid
		fields["user"] = u.Username
		fields["gid"] = u.Gid
	}
	logger.WithFields(fields).Debug("process")
}
