package bot

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "bot")
