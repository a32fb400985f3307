// Package iniconf reads AWS/Alibaba style shared credentials and config
// files: a plain INI file with a [default] section and named sections for
// everything else. It is a thin wrapper over gopkg.in/ini.v1; the awsv4
// profile provider is its only user (the aliyun package has no
// profile-file provider).
package iniconf

import (
	"gopkg.in/ini.v1"
)

// Section is a read-only view over one INI section's key/value pairs.
type Section struct {
	section *ini.Section
}

// Get returns the value for key and whether it was present.
func (s Section) Get(key string) (string, bool) {
	if s.section == nil || !s.section.HasKey(key) {
		return "", false
	}
	return s.section.Key(key).String(), true
}

// File is a parsed INI document.
type File struct {
	file *ini.File
}

// Parse parses raw INI content.
func Parse(content []byte) (*File, error) {
	f, err := ini.Load(content)
	if err != nil {
		return nil, err
	}
	return &File{file: f}, nil
}

// Section returns the named section, or ok=false if it doesn't exist.
func (f *File) Section(name string) (Section, bool) {
	if !f.file.HasSection(name) {
		return Section{}, false
	}
	return Section{section: f.file.Section(name)}, true
}

// ConfigSectionName returns the section name a profile's settings live
// under in an AWS-style config file: "default" stays "default", anything
// else is looked up under "profile <name>".
func ConfigSectionName(profile string) string {
	if profile == "default" {
		return "default"
	}
	return "profile " + profile
}
