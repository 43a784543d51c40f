package features

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/wpnuxt/wpnuxi/internal/blueprint"
)

// Plugin is a WordPress plugin a WPNuxt project relies on.
type Plugin struct {
	Name string
	// Zip is the release archive installed into Playground, if any.
	Zip string
}

var (
	WPGraphQL     = Plugin{Name: "WPGraphQL"}
	ContentBlocks = Plugin{
		Name: "WPGraphQL Content Blocks",
		Zip:  "https://github.com/wpengine/wp-graphql-content-blocks/releases/latest/download/wp-graphql-content-blocks.zip",
	}
	HeadlessLogin = Plugin{
		Name: "Headless Login for WPGraphQL",
		Zip:  "https://github.com/AxeWP/wp-graphql-headless-login/releases/latest/download/wp-graphql-headless-login.zip",
	}
)

// WordPressSetupURL documents how to prepare a custom WordPress install.
const WordPressSetupURL = "https://wpnuxt.com/getting-started/wordpress-setup"

// RequiredPlugins lists what a WordPress instance needs for a project. The
// full template ships every feature.
func RequiredPlugins(full bool, set Set) []Plugin {
	plugins := []Plugin{WPGraphQL}
	if full || set.Blocks {
		plugins = append(plugins, ContentBlocks)
	}
	if full || set.Auth {
		plugins = append(plugins, HeadlessLogin)
	}
	return plugins
}

const (
	headlessLoginConfigPath = "/wordpress/wp-content/mu-plugins/graphql-headless-login-config.php"
	headlessLoginConfig     = "<?php if (!defined('GRAPHQL_LOGIN_JWT_SECRET_KEY')) { define('GRAPHQL_LOGIN_JWT_SECRET_KEY', 'wpnuxt-blueprint-jwt-secret-key-for-local-dev'); } if (!defined('GRAPHQL_DEBUG')) { define('GRAPHQL_DEBUG', true); }"
	enablePasswordProvider  = "<?php require '/wordpress/wp-load.php'; update_option('wpgraphql_login_provider_password', array('name' => 'Password', 'order' => 0, 'slug' => 'password', 'isEnabled' => true, 'clientOptions' => array(), 'loginOptions' => array()));"
)

// PatchBlueprint installs the plugins needed by set into the Playground
// blueprint of dir. A project without blueprint.json is left alone and
// reports false.
func PatchBlueprint(dir string, set Set) (bool, error) {
	if !set.Any() {
		return false, nil
	}
	path := filepath.Join(dir, blueprint.FileName)
	bp, err := blueprint.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if set.Blocks {
		if err := bp.Prepend(blueprint.InstallPluginStep(ContentBlocks.Zip)); err != nil {
			return false, err
		}
	}
	if set.Auth {
		if err := bp.Prepend(blueprint.InstallPluginStep(HeadlessLogin.Zip)); err != nil {
			return false, err
		}
		err := bp.Append(
			blueprint.WriteFileStep(headlessLoginConfigPath, headlessLoginConfig),
			blueprint.RunPHPStep(enablePasswordProvider),
		)
		if err != nil {
			return false, err
		}
	}

	if err := bp.Save(path); err != nil {
		return false, err
	}
	return true, nil
}
