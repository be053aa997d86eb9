// Package config loads and saves the debugger's configuration file.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".quarry"
	configFile string = "config.yml"
)

// Config defines all configuration options available to be set through the
// config file.
type Config struct {
	// EntryFunction is the function name at which a backtrace walk stops.
	EntryFunction string `yaml:"entry-function"`
	// SymbolCacheSize bounds the per-inferior cache of address-to-symbol
	// lookups made during backtraces.
	SymbolCacheSize int `yaml:"symbol-cache-size"`
	// FollowExecOutput wires the target's stdout and stderr through to the
	// debugger's own.
	FollowExecOutput bool `yaml:"follow-exec-output"`
}

// Default returns the configuration used when no config file is consulted.
func Default() *Config {
	return &Config{
		EntryFunction:    "main",
		SymbolCacheSize:  256,
		FollowExecOutput: true,
	}
}

// LoadConfig attempts to populate a Config object from the config.yml file.
// Any failure falls back to the defaults.
func LoadConfig() *Config {
	err := createConfigPath()
	if err != nil {
		fmt.Printf("Could not create config directory: %v.", err)
		return Default()
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		fmt.Printf("Unable to get config file path: %v.", err)
		return Default()
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			fmt.Printf("Error creating default config file: %v", err)
			return Default()
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			fmt.Printf("Closing config file failed: %v.", err)
		}
	}()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		fmt.Printf("Unable to read config data: %v.", err)
		return Default()
	}

	conf := Default()
	err = yaml.Unmarshal(data, conf)
	if err != nil {
		fmt.Printf("Unable to decode config file: %v.", err)
		return Default()
	}

	return conf
}

// SaveConfig will marshal and save the config struct to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	if err := createConfigPath(); err != nil {
		return nil, fmt.Errorf("could not create config directory: %v", err)
	}
	if err := SaveConfig(Default()); err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	return os.Open(path)
}

func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	return path.Join(getUserHomeDir(), configDir, file), nil
}

func getUserHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}
