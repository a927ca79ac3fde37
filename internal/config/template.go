package config

// DefaultConfigTemplate is the config file written by `amdpack config init`.
const DefaultConfigTemplate = `# amdpack configuration
#
# Values here are overridden by AMDPACK_* environment variables and flags.

# Directory node_modules lookups start from. Parent directories are searched
# as well.
nodeModules: .

cdn:
  # Fall back to jsDelivr for packages missing from node_modules.
  enabled: false
  baseURL: https://cdn.jsdelivr.net/npm
  # CDN responses kept in memory.
  cacheSize: 1024

# KEY=VALUE pairs injected into process.env of the process package.
env: []
#  - NODE_ENV=production

# Per-package overrides.
# packages:
#   lodash:
#     version: 4.17.21
#   my-lib:
#     location: ../my-lib
#     main: dist/index.js

log:
  timestamps: true
`
