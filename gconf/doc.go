/*
Package gconf provides a toolset for managing an extension configuration.

Every extension can declare a configuration object and use gconf to load and
store it in the database as a singleton. Configuration is initialized from
the genesis declaration and can be updated at runtime by the configuration
owner through a patch message.
*/
package gconf
