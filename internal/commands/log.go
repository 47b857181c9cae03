package commands

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "commands")
